package prompt

import (
	"fmt"
	"strings"

	"ai-assistant-be/pkg/rag/dedup"
)

// TruncationNotice is appended to the knowledge block when the concatenated
// context exceeds the character budget.
const TruncationNotice = "[Additional context truncated to fit token limits]"

// System builds the system instruction for a completion call. When context
// texts are present they are prepended as a knowledge block, truncated to
// charBudget characters of context with a notice when cut.
func System(contextTexts []string, charBudget int) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant. ")

	if len(contextTexts) > 0 {
		b.WriteString("Use the following knowledge base to answer questions accurately. ")
		b.WriteString("If the answer is in the knowledge base, cite it. ")
		b.WriteString("If not, use your general knowledge but mention that it's not from the user's knowledge base.\n\n")
		b.WriteString("=== KNOWLEDGE BASE ===\n")

		used := 0
		for _, context := range contextTexts {
			if used+len(context) > charBudget {
				b.WriteString("\n" + TruncationNotice + "\n")
				break
			}
			b.WriteString(context)
			b.WriteString("\n\n")
			used += len(context)
		}

		b.WriteString("=== END KNOWLEDGE BASE ===\n\n")
	}

	b.WriteString("Respond naturally and conversationally. ")
	b.WriteString("Be concise but thorough. ")
	b.WriteString("Format your responses in plain text without excessive markdown symbols.")

	return b.String()
}

// Synthesis builds the instruction asking the model to phrase found documents
// as a natural summary. Raw previews are never returned to the user directly.
func Synthesis(userMessage string, docs []dedup.Document, previewLen int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user asked: '%s'\n\n", userMessage)
	fmt.Fprintf(&b, "I found %d relevant document(s) in their knowledge base. ", len(docs))
	b.WriteString("Generate a natural, helpful response that:\n")
	b.WriteString("1. Acknowledges what they're looking for\n")
	b.WriteString("2. Mentions how many relevant documents were found\n")
	b.WriteString("3. Briefly describes what the documents contain\n")
	b.WriteString("4. If files are attached, mention they can click to download them\n\n")
	b.WriteString("Keep it conversational and helpful.\n\n")
	b.WriteString("Documents:\n")

	for i, doc := range docs {
		fmt.Fprintf(&b, "%d. %s", i+1, doc.Preview(previewLen))
		if doc.HasFile && doc.FileName != "" {
			fmt.Fprintf(&b, " [File: %s]", doc.FileName)
		}
		b.WriteString("\n")
	}

	return b.String()
}
