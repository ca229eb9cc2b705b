package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tieubaoca/recipe-assistant/types"
)

func sampleCandidates() []types.Candidate {
	return []types.Candidate{
		{
			Document: types.RecipeDocument{
				ID:           "r1",
				Title:        "Chicken Fried Rice",
				Ingredients:  []string{"chicken", "rice", "soy sauce"},
				Instructions: "Fry the rice, add the chicken.",
				Tags:         []string{"dinner"},
				PrepMinutes:  10,
				CookMinutes:  15,
				Servings:     2,
			},
			Score: 9.5,
			Rank:  1,
		},
		{
			Document: types.RecipeDocument{
				ID:           "r2",
				Title:        "Plain Rice",
				Ingredients:  []string{"rice", "water"},
				Instructions: "Boil the rice.",
				PrepMinutes:  5,
				CookMinutes:  20,
			},
			Score: 3.0,
			Rank:  2,
		},
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	question := "What can I cook with chicken and rice?"
	candidates := sampleCandidates()

	first := BuildPrompt(question, candidates)
	second := BuildPrompt(question, candidates)

	assert.Equal(t, first, second)
}

func TestBuildPromptContainsQuestionVerbatim(t *testing.T) {
	question := "How long does it take to cook risotto?  (with  odd    spacing)"
	prompt := BuildPrompt(question, sampleCandidates())

	assert.Contains(t, prompt, "QUESTION: "+question)
}

func TestBuildPromptPreservesCandidateOrder(t *testing.T) {
	prompt := BuildPrompt("rice dishes", sampleCandidates())

	first := strings.Index(prompt, "Recipe: Chicken Fried Rice")
	second := strings.Index(prompt, "Recipe: Plain Rice")
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
}

func TestBuildPromptIncludesRecipeFields(t *testing.T) {
	prompt := BuildPrompt("rice dishes", sampleCandidates())

	assert.Contains(t, prompt, "Ingredients: chicken, rice, soy sauce")
	assert.Contains(t, prompt, "Instructions: Fry the rice, add the chicken.")
	assert.Contains(t, prompt, "Prep Time: 10 minutes")
	assert.Contains(t, prompt, "Cook Time: 15 minutes")
	assert.Contains(t, prompt, "Tags: dinner")
	assert.Contains(t, prompt, "Servings: 2")
}

func TestBuildPromptEmptyCandidates(t *testing.T) {
	prompt := BuildPrompt("something obscure", nil)

	assert.Contains(t, prompt, "No matching recipes were found")
	assert.NotContains(t, prompt, "Recipe:")
}

func TestBuildEvaluationPrompt(t *testing.T) {
	prompt := BuildEvaluationPrompt("What is paella?", "Paella is a Spanish rice dish.")

	assert.Contains(t, prompt, "Question: What is paella?")
	assert.Contains(t, prompt, "Generated Answer: Paella is a Spanish rice dish.")
	assert.Contains(t, prompt, `"Relevance"`)
}
