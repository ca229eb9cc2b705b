package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SourceRef is one grounding recipe returned to the caller alongside
// the answer.
type SourceRef struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// AskResponse is returned to the API layer after a successful pipeline run.
type AskResponse struct {
	ExchangeID           string      `json:"exchange_id"`
	Question             string      `json:"question"`
	Answer               string      `json:"answer"`
	Sources              []SourceRef `json:"sources"`
	ModelUsed            string      `json:"model_used"`
	ResponseTime         float64     `json:"response_time"`
	Relevance            string      `json:"relevance,omitempty"`
	RelevanceExplanation string      `json:"relevance_explanation,omitempty"`
	EstimatedCost        float64     `json:"estimated_cost"`
}
