package chatdoc

import "strings"

// MaxDocumentChars bounds how much of the document is sent with each
// question.
const MaxDocumentChars = 30000

// DefaultInstructions is the preamble placed before the document.
const DefaultInstructions = "Responde en español usando únicamente la información del documento. Si la respuesta no está en el documento, dilo."

// TruncateText returns the first max characters of text. Truncation counts
// runes and may cut mid-sentence.
func TruncateText(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}

// BuildPrompt builds the prompt sent to the model: the instructions, the
// document truncated to MaxDocumentChars and the question.
func BuildPrompt(documentText, question, instructions string) string {
	var sb strings.Builder
	if instructions != "" {
		sb.WriteString(instructions)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Documento:\n")
	sb.WriteString(TruncateText(documentText, MaxDocumentChars))
	sb.WriteString("\n\nPregunta: ")
	sb.WriteString(question)
	return sb.String()
}
