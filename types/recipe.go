package types

// RawRecipeRecord is a recipe as it arrives from an ingestion source
// (CSV export, JSON dump) before normalization.
type RawRecipeRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Tags         []string `json:"tags"`
	PrepMinutes  int      `json:"prep_minutes"`
	CookMinutes  int      `json:"cook_minutes"`
	Servings     int      `json:"servings"`
}

// RecipeDocument is the normalized, searchable form of a recipe.
// Immutable once indexed; re-indexing the same ID overwrites the document.
type RecipeDocument struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Tags         []string `json:"tags"`
	PrepMinutes  int      `json:"prep_minutes"`
	CookMinutes  int      `json:"cook_minutes"`
	Servings     int      `json:"servings"`
}

// TotalMinutes returns the combined prep and cook time.
func (d RecipeDocument) TotalMinutes() int {
	return d.PrepMinutes + d.CookMinutes
}

// IndexSummary reports the outcome of one ingestion batch run.
type IndexSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Add merges another summary into this one.
func (s *IndexSummary) Add(other IndexSummary) {
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Failed += other.Failed
}

// FieldBoosts holds the per-field weights applied to ranked text search so
// title matches outrank instruction-body matches at equal term overlap.
type FieldBoosts struct {
	Title        float64
	Ingredients  float64
	Instructions float64
}

// DefaultFieldBoosts mirrors the weighting used by the search index mapping.
func DefaultFieldBoosts() FieldBoosts {
	return FieldBoosts{Title: 3, Ingredients: 2, Instructions: 1}
}
