package handler

type LogsQuery struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// FaultRequest makes the next Count requests to Path fail with Status.
// Status 0 drops the connection to simulate a transport failure.
type FaultRequest struct {
	Path    string `json:"path" validate:"required,startswith=/"`
	Status  int    `json:"status" validate:"omitempty,gte=400,lte=599"`
	Message string `json:"message" validate:"max=256"`
	Count   int    `json:"count" validate:"gte=0,lte=1000"`
	// Body replaces the response with raw text to simulate a decode failure
	Body string `json:"body"`
}

type Fault struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Message   string `json:"message,omitempty"`
	Body      string `json:"body,omitempty"`
	Remaining int    `json:"remaining"`
}
