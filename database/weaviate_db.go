package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	RECIPE_CLASS        = "Recipe"
	RECIPE_CLASS_OBJECT = &models.Class{
		Class: RECIPE_CLASS,
		Properties: []*models.Property{
			{Name: "recipeId", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "ingredients", DataType: []string{"text[]"}},
			{Name: "instructions", DataType: []string{"text"}},
			{Name: "tags", DataType: []string{"text[]"}},
			{Name: "prepMinutes", DataType: []string{"int"}},
			{Name: "cookMinutes", DataType: []string{"int"}},
			{Name: "servings", DataType: []string{"int"}},
		},
	}
)

// WeaviateStore implements SearchStore on a Weaviate instance using
// BM25 keyword search over the recipe fields.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasRecipeClass := false
	for _, class := range schema.Classes {
		if class.Class == RECIPE_CLASS {
			hasRecipeClass = true
			break
		}
	}
	// Create Recipe class if it doesn't exist
	if !hasRecipeClass {
		err = client.Schema().ClassCreator().WithClass(RECIPE_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create Recipe class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

// ReInit drops and recreates the Recipe class, discarding all documents.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(RECIPE_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete Recipe class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(RECIPE_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create Recipe class: %v", err)
	}
	return nil
}

// objectID derives the Weaviate object id deterministically from the
// recipe id, so re-indexing the same recipe overwrites instead of
// duplicating.
func objectID(recipeID string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("recipe:"+recipeID)).String())
}

func (s *WeaviateStore) Upsert(ctx context.Context, docs []types.RecipeDocument) (*types.IndexSummary, error) {
	summary := &types.IndexSummary{}
	total := len(docs)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}
		batch := docs[i:end]

		existing, err := s.existingIDs(ctx, batch)
		if err != nil {
			return summary, err
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for _, doc := range batch {
			batcher = batcher.WithObjects(&models.Object{
				Class: RECIPE_CLASS,
				ID:    objectID(doc.ID),
				Properties: map[string]interface{}{
					"recipeId":     doc.ID,
					"title":        doc.Title,
					"ingredients":  doc.Ingredients,
					"instructions": doc.Instructions,
					"tags":         doc.Tags,
					"prepMinutes":  doc.PrepMinutes,
					"cookMinutes":  doc.CookMinutes,
					"servings":     doc.Servings,
				},
			})
		}

		resp, err := batcher.Do(ctx)
		if err != nil {
			return summary, fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}

		// Partial batch results: count per object, not per batch.
		for j, res := range resp {
			if res.Result != nil && res.Result.Errors != nil && len(res.Result.Errors.Error) > 0 {
				summary.Failed++
				continue
			}
			if j < len(batch) && existing[batch[j].ID] {
				summary.Updated++
			} else {
				summary.Inserted++
			}
		}

		log.Printf("Indexed batch %d-%d of %d recipes", i, end, total)
	}

	return summary, nil
}

// existingIDs returns which recipe ids in the batch are already indexed.
func (s *WeaviateStore) existingIDs(ctx context.Context, batch []types.RecipeDocument) (map[string]bool, error) {
	ids := make([]string, len(batch))
	for i, doc := range batch {
		ids[i] = doc.ID
	}
	where := filters.Where().
		WithPath([]string{"recipeId"}).
		WithOperator(filters.ContainsAny).
		WithValueString(ids...)

	result, err := s.client.GraphQL().Get().
		WithClassName(RECIPE_CLASS).
		WithFields(graphql.Field{Name: "recipeId"}).
		WithWhere(where).
		WithLimit(len(batch)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing recipes: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("failed to check existing recipes: %v", result.Errors[0].Message)
	}

	existing := make(map[string]bool)
	if data, ok := result.Data["Get"].(map[string]interface{})[RECIPE_CLASS].([]interface{}); ok {
		for _, item := range data {
			if doc, ok := item.(map[string]interface{}); ok {
				if id, ok := doc["recipeId"].(string); ok {
					existing[id] = true
				}
			}
		}
	}
	return existing, nil
}

func (s *WeaviateStore) Search(ctx context.Context, query SearchQuery) ([]ScoredRecipe, error) {
	fields := []graphql.Field{
		{Name: "recipeId"},
		{Name: "title"},
		{Name: "ingredients"},
		{Name: "instructions"},
		{Name: "tags"},
		{Name: "prepMinutes"},
		{Name: "cookMinutes"},
		{Name: "servings"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "score"}}},
	}

	bm25 := (&graphql.BM25ArgumentBuilder{}).
		WithQuery(query.Text).
		WithProperties(boostedProperties(query.Boosts)...)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(RECIPE_CLASS).
		WithFields(fields...).
		WithBM25(bm25)
	if query.Limit > 0 {
		getBuilder = getBuilder.WithLimit(query.Limit)
	}
	if where := buildTagFilter(query.Tags); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var recipes []ScoredRecipe
	if data, ok := result.Data["Get"].(map[string]interface{})[RECIPE_CLASS].([]interface{}); ok {
		for _, item := range data {
			doc, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			recipe := ScoredRecipe{
				Document: types.RecipeDocument{
					ID:           asString(doc["recipeId"]),
					Title:        asString(doc["title"]),
					Ingredients:  parseStringArray(doc["ingredients"]),
					Instructions: asString(doc["instructions"]),
					Tags:         parseStringArray(doc["tags"]),
					PrepMinutes:  asInt(doc["prepMinutes"]),
					CookMinutes:  asInt(doc["cookMinutes"]),
					Servings:     asInt(doc["servings"]),
				},
			}
			if additional, ok := doc["_additional"].(map[string]interface{}); ok {
				recipe.Score = parseScore(additional["score"])
			}
			recipes = append(recipes, recipe)
		}
	}

	return recipes, nil
}

func boostedProperties(boosts types.FieldBoosts) []string {
	return []string{
		fmt.Sprintf("title^%g", boosts.Title),
		fmt.Sprintf("ingredients^%g", boosts.Ingredients),
		fmt.Sprintf("instructions^%g", boosts.Instructions),
	}
}

// buildTagFilter requires every tag to be present on the document: hard
// constraints, never down-weighted.
func buildTagFilter(tags []string) *filters.WhereBuilder {
	if len(tags) == 0 {
		return nil
	}
	operands := make([]*filters.WhereBuilder, len(tags))
	for i, tag := range tags {
		operands[i] = filters.Where().
			WithPath([]string{"tags"}).
			WithOperator(filters.ContainsAny).
			WithValueString(tag)
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return filters.Where().
		WithOperator(filters.And).
		WithOperands(operands)
}

// Helper functions
func parseStringArray(v interface{}) []string {
	if v == nil {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, len(arr))
	for i, item := range arr {
		result[i], _ = item.(string)
	}
	return result
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int(f)
}

// parseScore handles Weaviate returning the BM25 score as a string.
func parseScore(v interface{}) float64 {
	switch score := v.(type) {
	case string:
		f, err := strconv.ParseFloat(score, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return score
	default:
		return 0
	}
}
