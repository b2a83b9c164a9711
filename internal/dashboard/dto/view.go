package dto

type FocusNodeRequest struct {
	View   string `json:"view" validate:"omitempty,max=64,excludesall=/?# "`
	NodeID int64  `json:"node_id" validate:"gte=0"`
}

type ViewStatus struct {
	View   string       `json:"view"`
	NodeID int64        `json:"node_id"`
	Feeds  []FeedStatus `json:"feeds"`
}

type ListViewsResponse struct {
	Views []ViewStatus `json:"views"`
	Total int          `json:"total"`
}
