package database

import (
	"context"

	"github.com/tieubaoca/recipe-assistant/types"
)

// SearchQuery is one ranked text search against the recipe index.
type SearchQuery struct {
	// Text is the free-text query matched against title, ingredients
	// and instructions.
	Text string
	// Tags are hard constraints: a document must carry every tag listed
	// here to be considered at all.
	Tags []string
	// Limit bounds the number of scored documents returned.
	Limit int
	// Boosts are the per-field match weights.
	Boosts types.FieldBoosts
}

// ScoredRecipe is a recipe document with the relevance score the store
// assigned for one query.
type ScoredRecipe struct {
	Document types.RecipeDocument
	Score    float64
}

// SearchStore defines the interface to the recipe search index.
// The indexer exclusively owns writes; retrieval reads concurrently.
type SearchStore interface {
	// Upsert writes documents into the index. Submitting an ID that
	// already exists overwrites that document. Partial failures are
	// reported per document in the returned summary, not as an error.
	Upsert(ctx context.Context, docs []types.RecipeDocument) (*types.IndexSummary, error)

	// Search runs a ranked, field-boosted text search. Fewer results
	// than the limit (including none) is not an error.
	Search(ctx context.Context, query SearchQuery) ([]ScoredRecipe, error)
}
