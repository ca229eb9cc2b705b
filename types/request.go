package types

// AskRequest is the inbound payload for the question endpoint.
type AskRequest struct {
	Question        string   `json:"question"`
	Tags            []string `json:"tags,omitempty"`
	MaxTotalMinutes int      `json:"max_total_minutes,omitempty"`
}

// Query converts the request into the pipeline's query shape.
func (r AskRequest) Query() Query {
	return Query{
		Question:        r.Question,
		Tags:            r.Tags,
		MaxTotalMinutes: r.MaxTotalMinutes,
	}
}

// FeedbackRequest is the inbound payload for the feedback endpoint.
type FeedbackRequest struct {
	ExchangeID string `json:"exchange_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}
