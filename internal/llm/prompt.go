package llm

import (
	"strings"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
)

// maxPromptText caps how much document text goes into a prompt.
const maxPromptText = 1000

// BuildPrompt composes the per-category extraction prompt. Each prompt asks
// for ONLY a JSON object whose keys mirror the category's field set, so the
// reply can be merged over the pattern-extracted fields.
func BuildPrompt(docType constants.DocType, rawText string) string {
	text := rawText
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}

	var b strings.Builder
	switch docType {
	case constants.IdentityCard:
		b.WriteString(`Analyze this national identity card and extract ONLY the following information as JSON:
{
    "surname": "FAMILY NAME IN CAPITALS",
    "given_name": "Given name",
    "expiry_date": "DD/MM/YYYY"
}`)
	case constants.ElectricalAuthorization:
		b.WriteString(`Analyze this electrical-work authorization and extract ONLY the following information as JSON:
{
    "surname": "FAMILY NAME",
    "given_name": "Given name",
    "issue_date": "DD/MM/YYYY",
    "level": "B0V, H0V, etc."
}`)
	case constants.SafetyDataSheet:
		b.WriteString(`Analyze this safety data sheet and extract ONLY the following information as JSON:
{
    "product": "Product name",
    "publication_year": 2023,
    "revision_date": "DD/MM/YYYY"
}`)
	case constants.RefrigerationAptitude:
		b.WriteString(`Analyze this refrigeration-aptitude certificate and extract ONLY the following information as JSON:
{
    "surname": "FAMILY NAME",
    "given_name": "Given name",
    "category": "I, II, III, etc."
}`)
	default:
		b.WriteString("Analyze this document and extract the important information as JSON.")
	}

	b.WriteString("\n\nDocument text:\n")
	b.WriteString(text)
	b.WriteString("\n\nReply with ONLY the JSON object, no commentary.")
	return b.String()
}
