package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnswerPrompt asks the model to answer a question about the resume
// using only the retrieved excerpts.
func (pb *PromptBuilder) BuildAnswerPrompt(question, context string) string {
	return fmt.Sprintf(`You are answering questions about a single candidate's resume.
Use ONLY the resume excerpts below. If the excerpts do not contain the answer, say so plainly
instead of guessing. Follow any output format the question asks for exactly.

RESUME EXCERPTS:
%s

QUESTION:
%s`, context, question)
}

// FormatRAGContext joins retrieved chunks in rank order.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for i, result := range results {
		header := fmt.Sprintf("--- Excerpt %d (Score: %.2f)", i+1, result.Score)
		if result.Section != "" {
			header += ", " + result.Section
		}
		parts = append(parts, fmt.Sprintf("%s ---\n%s", header, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
