package dto

import "time"

type FeedError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
	// Hint is the operator-facing wording of the failure
	Hint string `json:"hint"`
}

// FeedStatus is the consumer view of one polling session:
// data, loading and error plus the policy driving it.
type FeedStatus struct {
	Name      string     `json:"name"`
	View      string     `json:"view,omitempty"`
	NodeID    int64      `json:"node_id,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
	Bound     bool       `json:"bound"`
	Active    bool       `json:"active"`
	Enabled   bool       `json:"enabled"`
	Interval  string     `json:"interval,omitempty"`
	Loading   bool       `json:"loading"`
	Data      any        `json:"data"`
	Error     *FeedError `json:"error"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Fetches   int        `json:"fetches"`
}

type ListFeedsResponse struct {
	Visible bool         `json:"visible"`
	Feeds   []FeedStatus `json:"feeds"`
	Total   int          `json:"total"`
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
