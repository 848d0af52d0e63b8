package wikipedia

import "eventpulse/internal/domain"

// pageviewsResponse is the Wikimedia REST pageviews envelope.
type pageviewsResponse struct {
	Items []domain.PageviewPoint `json:"items"`
}

// revisionsResponse is the MediaWiki action=query envelope. Pages is keyed
// by an opaque page ID ("-1" for a missing page); only one page comes back
// for a single-title query.
type revisionsResponse struct {
	Query struct {
		Pages map[string]revisionPage `json:"pages"`
	} `json:"query"`
}

type revisionPage struct {
	PageID    int64             `json:"pageid"`
	Title     string            `json:"title"`
	Missing   *string           `json:"missing"`
	Revisions []domain.Revision `json:"revisions"`
}
