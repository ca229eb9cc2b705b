package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/recipe-assistant/types"
)

func TestMemoryStoreUpsertCountsInsertedAndUpdated(t *testing.T) {
	store := NewMemorySearchStore()

	summary, err := store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "r1", Title: "Chicken Rice"},
		{ID: "r2", Title: "Tomato Soup"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Updated)

	summary, err = store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "r1", Title: "Chicken Rice Deluxe"},
		{ID: "r3", Title: "Pancakes"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 3, store.Count())
}

func TestMemoryStoreSearchBoostsTitleOverInstructions(t *testing.T) {
	store := NewMemorySearchStore()
	_, err := store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "title-hit", Title: "Paella", Instructions: "Cook slowly."},
		{ID: "body-hit", Title: "Rice Dish", Instructions: "Similar to paella."},
	})
	require.NoError(t, err)

	results, err := store.Search(context.Background(), SearchQuery{
		Text:   "paella",
		Limit:  10,
		Boosts: types.DefaultFieldBoosts(),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "title-hit", results[0].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStoreSearchFiltersByTags(t *testing.T) {
	store := NewMemorySearchStore()
	_, err := store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "v", Title: "Vegetable Curry", Tags: []string{"vegetarian"}},
		{ID: "m", Title: "Chicken Curry", Tags: []string{"dinner"}},
	})
	require.NoError(t, err)

	results, err := store.Search(context.Background(), SearchQuery{
		Text:   "curry",
		Tags:   []string{"vegetarian"},
		Limit:  10,
		Boosts: types.DefaultFieldBoosts(),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v", results[0].Document.ID)
}

func TestMemoryStoreSearchHonorsLimit(t *testing.T) {
	store := NewMemorySearchStore()
	_, err := store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "r1", Title: "Rice One"},
		{ID: "r2", Title: "Rice Two"},
		{ID: "r3", Title: "Rice Three"},
	})
	require.NoError(t, err)

	results, err := store.Search(context.Background(), SearchQuery{
		Text:   "rice",
		Limit:  2,
		Boosts: types.DefaultFieldBoosts(),
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryStoreSearchNoMatches(t *testing.T) {
	store := NewMemorySearchStore()
	_, err := store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "r1", Title: "Pancakes"},
	})
	require.NoError(t, err)

	results, err := store.Search(context.Background(), SearchQuery{
		Text:   "submarine",
		Limit:  10,
		Boosts: types.DefaultFieldBoosts(),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStoreSearchDeterministicTieBreak(t *testing.T) {
	store := NewMemorySearchStore()
	_, err := store.Upsert(context.Background(), []types.RecipeDocument{
		{ID: "b", Title: "Garlic Bread"},
		{ID: "a", Title: "Garlic Bread"},
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		results, err := store.Search(context.Background(), SearchQuery{
			Text:   "garlic bread",
			Limit:  10,
			Boosts: types.DefaultFieldBoosts(),
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].Document.ID)
		assert.Equal(t, "b", results[1].Document.ID)
	}
}
