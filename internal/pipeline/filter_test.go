package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventpulse/internal/domain"
)

func TestIsPlaceholderQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{"lone letter before win", "Will Candidate A win?", true},
		{"lone letter before be", "Will Person B be nominated?", true},
		{"lone letter before lose", "Will Team C lose the final?", true},
		{"lone letter at end", "Who will pick Movie B", true},
		{"lone letter before question mark", "Will it be Candidate D?", true},
		{"lone letter before closing quote", `Will "Candidate A" be selected?`, true},
		{"lone letter before closing paren", "Will the nominee (B) accept?", true},
		{"lowercase placeholder", "will candidate a win?", true},

		{"real team name", "Will the Lakers win the championship?", false},
		{"word containing win", "Will there be a winner announced?", false},
		{"word ending in single letter", "Will the NBA finals go to 7 games?", false},
		{"no placeholder", "Will the Democratic nominee win the 2024 election?", false},
		{"letter inside word", "Will Apple release a new phone?", false},
		{"empty question", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlaceholderQuestion(tt.question), "question: %q", tt.question)
		})
	}
}

func TestFilterPlaceholders(t *testing.T) {
	markets := []domain.Market{
		{Question: "Will the Democratic nominee win the 2024 election?", ConditionID: "0x1"},
		{Question: "Will Candidate A win?", ConditionID: "0x2"},
		{Question: "Will the Republican nominee win the 2024 election?", ConditionID: "0x3"},
		{Question: "Who will pick Movie B", ConditionID: "0x4"},
	}

	kept := FilterPlaceholders(markets)

	assert.Len(t, kept, 2)
	assert.Equal(t, "0x1", kept[0].ConditionID)
	assert.Equal(t, "0x3", kept[1].ConditionID)

	// The input is untouched.
	assert.Len(t, markets, 4)
	assert.Equal(t, "0x2", markets[1].ConditionID)
}

func TestFilterPlaceholdersAllRemoved(t *testing.T) {
	markets := []domain.Market{
		{Question: "Will Candidate A win?"},
		{Question: "Will Candidate B win?"},
	}

	kept := FilterPlaceholders(markets)
	assert.Empty(t, kept)
}

func TestFilterPlaceholdersNoneRemoved(t *testing.T) {
	markets := []domain.Market{
		{Question: "Will the Chiefs win the Super Bowl?"},
		{Question: "Will turnout exceed 60%?"},
	}

	kept := FilterPlaceholders(markets)
	assert.Equal(t, markets, kept)
}
