package types

// Query is a single user question plus optional hard filters.
// Ephemeral; only its text is persisted, as part of an Exchange.
type Query struct {
	Question        string   `json:"question"`
	Tags            []string `json:"tags,omitempty"`
	MaxTotalMinutes int      `json:"max_total_minutes,omitempty"`
}

// Candidate is a retrieved recipe with its relevance score and the rank
// the retriever assigned for one query. Produced per request, held only
// long enough to build the prompt and to record what was retrieved.
type Candidate struct {
	Document RecipeDocument `json:"document"`
	Score    float64        `json:"score"`
	Rank     int            `json:"rank"`
}

// CandidateRef is the slim form of a candidate persisted with an Exchange:
// id and score, not the full document.
type CandidateRef struct {
	ID    string  `bson:"id" json:"id"`
	Title string  `bson:"title" json:"title"`
	Score float64 `bson:"score" json:"score"`
	Rank  int     `bson:"rank" json:"rank"`
}

// Refs converts candidates to their persisted slim form, preserving order.
func Refs(candidates []Candidate) []CandidateRef {
	refs := make([]CandidateRef, len(candidates))
	for i, c := range candidates {
		refs[i] = CandidateRef{
			ID:    c.Document.ID,
			Title: c.Document.Title,
			Score: c.Score,
			Rank:  c.Rank,
		}
	}
	return refs
}

// Generation is the answer produced by a model backend along with its
// token and latency metadata. The answer text is opaque to the pipeline.
type Generation struct {
	Answer           string  `json:"answer"`
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	ResponseTime     float64 `json:"response_time"`
}

// Relevance classification values produced by answer self-evaluation.
const (
	RelevanceRelevant       = "RELEVANT"
	RelevancePartlyRelevant = "PARTLY_RELEVANT"
	RelevanceNonRelevant    = "NON_RELEVANT"
	RelevanceUnknown        = "UNKNOWN"
)

// RelevanceEvaluation is the result of evaluating a generated answer
// against its question with a second model call.
type RelevanceEvaluation struct {
	Relevance   string `json:"Relevance"`
	Explanation string `json:"Explanation"`

	PromptTokens     int `json:"-"`
	CompletionTokens int `json:"-"`
	TotalTokens      int `json:"-"`
}
