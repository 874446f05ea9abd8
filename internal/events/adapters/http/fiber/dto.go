package fiber

// CreateEventRequest represents event creation payload
// @Description Event creation DTO
type CreateEventRequest struct {
	Dt    string   `json:"dt" example:"2022-09-01T00:00:00"`
	Value *float64 `json:"value" example:"42"`
}

type CreateEventResponse struct {
	Status string `json:"status"`
}

type BulkCreateEventsRequest struct {
	Events []CreateEventRequest `json:"events"`
}

type BulkCreateEventsResponse struct {
	Created int `json:"created"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message,omitempty" example:"invalid event: value is required"`
}
