package service

import (
	"fmt"
	"strings"

	"github.com/tieubaoca/recipe-assistant/types"
)

// Prompt templates for answer generation and answer evaluation.
const promptTemplate = `You are an expert chef and culinary assistant. Answer the QUESTION based on the CONTEXT from our recipe database.
Use only the facts from the CONTEXT when answering the QUESTION. If the CONTEXT does not contain enough information to answer, say so explicitly instead of inventing recipes.

QUESTION: %s

CONTEXT:
%s`

const emptyContext = `No matching recipes were found in the database for this question. Tell the user that no matching recipes were found and do not invent or fabricate any recipe.`

const evaluationPromptTemplate = `You are an expert evaluator for a RAG system.
Your task is to analyze the relevance of the generated answer to the given question.
Based on the relevance of the generated answer, you will classify it
as "NON_RELEVANT", "PARTLY_RELEVANT", or "RELEVANT".

Here is the data for evaluation:

Question: %s
Generated Answer: %s

Please analyze the content and context of the generated answer in relation to the question
and provide your evaluation in parsable JSON without using code blocks:

{
  "Relevance": "NON_RELEVANT" | "PARTLY_RELEVANT" | "RELEVANT",
  "Explanation": "[Provide a brief explanation for your evaluation]"
}`

// BuildPrompt renders the retrieved candidates and the verbatim question
// into the grounding prompt. Pure function: identical arguments (including
// candidate order) always produce byte-identical output.
func BuildPrompt(question string, candidates []types.Candidate) string {
	if len(candidates) == 0 {
		return fmt.Sprintf(promptTemplate, question, emptyContext)
	}
	entries := make([]string, len(candidates))
	for i, candidate := range candidates {
		entries[i] = formatCandidate(candidate.Document)
	}
	return fmt.Sprintf(promptTemplate, question, strings.Join(entries, "\n\n"))
}

func formatCandidate(doc types.RecipeDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipe: %s\n", doc.Title)
	if len(doc.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	fmt.Fprintf(&b, "Prep Time: %d minutes\n", doc.PrepMinutes)
	fmt.Fprintf(&b, "Cook Time: %d minutes\n", doc.CookMinutes)
	if doc.Servings > 0 {
		fmt.Fprintf(&b, "Servings: %d\n", doc.Servings)
	}
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(doc.Ingredients, ", "))
	fmt.Fprintf(&b, "Instructions: %s", doc.Instructions)
	return b.String()
}

// BuildEvaluationPrompt renders the answer-evaluation prompt.
func BuildEvaluationPrompt(question, answer string) string {
	return fmt.Sprintf(evaluationPromptTemplate, question, answer)
}
