package fiber

// AggregateRequest documents the query body. Decoding goes through
// decodeQuery so absent and null keys can be told apart from bad values.
type AggregateRequest struct {
	DtFrom    string `json:"dt_from" example:"2022-09-01T00:00:00"`
	DtUpto    string `json:"dt_upto" example:"2022-12-31T23:59:00"`
	GroupType string `json:"group_type" example:"month"`
}

type AggregateResponse struct {
	Dataset []float64 `json:"dataset"`
	Labels  []string  `json:"labels"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_granularity"`
	Message string `json:"message" example:"group_type must be one of hour, day or month"`
}
