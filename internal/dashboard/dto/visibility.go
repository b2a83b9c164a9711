package dto

type SetVisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

type VisibilityResponse struct {
	Visible bool `json:"visible"`
	// Announced is true when the change was also published to other
	// dashboard processes.
	Announced bool `json:"announced"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Visible        bool   `json:"visible"`
	Feeds          int    `json:"feeds"`
	Views          int    `json:"views"`
	SharedSessions int    `json:"shared_sessions"`
}
