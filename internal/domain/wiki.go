package domain

import "time"

// PageviewPoint is one daily per-article view count as delivered by the
// Wikimedia pageviews API.
type PageviewPoint struct {
	Project     string `json:"project"`
	Article     string `json:"article"`
	Granularity string `json:"granularity"`
	Timestamp   string `json:"timestamp"` // YYYYMMDDHH
	Access      string `json:"access"`
	Agent       string `json:"agent"`
	Views       int64  `json:"views"`
}

// Revision is one edit-history record for a wiki page.
type Revision struct {
	RevID     int64  `json:"revid"`
	ParentID  int64  `json:"parentid"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"` // ISO 8601 as delivered
	Size      int64  `json:"size"`
	Comment   string `json:"comment"`
}

// AttentionData bundles the attention time series collected for one page.
type AttentionData struct {
	RunID     string
	Title     string // canonical underscore form
	StartDate time.Time
	EndDate   time.Time
	Views     []PageviewPoint
	Revisions []Revision
}
