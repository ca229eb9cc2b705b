package types

// Exchange status values. The transition created -> answered|failed is
// one-way; answered and failed are terminal.
const (
	StatusCreated  = "created"
	StatusAnswered = "answered"
	StatusFailed   = "failed"
)

// Failure kinds recorded on a failed Exchange.
const (
	FailureRetrievalUnavailable = "RetrievalUnavailable"
	FailureGenerationFailed     = "GenerationFailed"
	FailureCancelled            = "Cancelled"
)

// Exchange is the durable record of one question/answer interaction:
// what was asked, what was retrieved for grounding, what was answered,
// and how it ended. Append-only audit trail; never deleted.
type Exchange struct {
	ID         string         `bson:"_id" json:"id"`
	Question   string         `bson:"question" json:"question"`
	Candidates []CandidateRef `bson:"candidates" json:"candidates"`
	Answer     string         `bson:"answer" json:"answer"`
	ModelUsed  string         `bson:"model_used" json:"model_used"`
	// ResponseTime is the end-to-end pipeline duration in seconds.
	ResponseTime         float64 `bson:"response_time" json:"response_time"`
	Relevance            string  `bson:"relevance" json:"relevance"`
	RelevanceExplanation string  `bson:"relevance_explanation" json:"relevance_explanation"`
	PromptTokens         int     `bson:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens     int     `bson:"completion_tokens" json:"completion_tokens"`
	TotalTokens          int     `bson:"total_tokens" json:"total_tokens"`
	EvalPromptTokens     int     `bson:"eval_prompt_tokens" json:"eval_prompt_tokens"`
	EvalCompletionTokens int     `bson:"eval_completion_tokens" json:"eval_completion_tokens"`
	EvalTotalTokens      int     `bson:"eval_total_tokens" json:"eval_total_tokens"`
	EstimatedCost        float64 `bson:"estimated_cost" json:"estimated_cost"`
	Status               string  `bson:"status" json:"status"`
	FailureKind          string  `bson:"failure_kind,omitempty" json:"failure_kind,omitempty"`
	CreatedAt            int64   `bson:"created_at" json:"created_at"`
}

// ExchangeResult carries everything recorded when an Exchange reaches a
// terminal state. Exactly one of the success fields or FailureKind is set.
type ExchangeResult struct {
	Status     string
	Candidates []CandidateRef

	// Success fields.
	Answer               string
	ModelUsed            string
	ResponseTime         float64
	Relevance            string
	RelevanceExplanation string
	PromptTokens         int
	CompletionTokens     int
	TotalTokens          int
	EvalPromptTokens     int
	EvalCompletionTokens int
	EvalTotalTokens      int
	EstimatedCost        float64

	// Failure field.
	FailureKind string
}

// Feedback is a user rating attached to exactly one Exchange after the
// fact. An Exchange may collect multiple feedback entries.
type Feedback struct {
	ID         string `bson:"_id" json:"id"`
	ExchangeID string `bson:"exchange_id" json:"exchange_id"`
	// Rating is 1 (helpful) or -1 (not helpful).
	Rating    int    `bson:"rating" json:"rating"`
	Comment   string `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
}

// FeedbackStats aggregates ratings across all feedback rows.
type FeedbackStats struct {
	ThumbsUp   int64 `json:"thumbs_up"`
	ThumbsDown int64 `json:"thumbs_down"`
}
