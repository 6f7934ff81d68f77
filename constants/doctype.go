package constants

import "strings"

// DocType is the closed set of compliance document categories.
type DocType string

const (
	IdentityCard            DocType = "IDENTITY_CARD"
	ElectricalAuthorization DocType = "ELECTRICAL_AUTHORIZATION"
	SafetyDataSheet         DocType = "SAFETY_DATA_SHEET"
	RefrigerationAptitude   DocType = "REFRIGERATION_APTITUDE"
	UnknownDocType          DocType = "UNKNOWN"
)

// docTypeKeywords maps each category to the filename keywords that identify
// it. The slice order below is the classification order: the first category
// with a substring hit wins, so entries must stay ordered.
type docTypeKeywords struct {
	Type     DocType
	Keywords []string
}

var classificationTable = []docTypeKeywords{
	{IdentityCard, []string{"cni", "carte", "identite", "identity"}},
	{ElectricalAuthorization, []string{"habilitation", "electrique", "electric"}},
	{SafetyDataSheet, []string{"fds", "fiche", "securite", "safety"}},
	{RefrigerationAptitude, []string{"aptitude", "frigo", "frigorifique", "refrigeration"}},
}

// ClassifyFilename guesses the document category from a filename. It never
// fails; filenames matching no keyword set map to UnknownDocType.
func ClassifyFilename(filename string) DocType {
	lower := strings.ToLower(filename)
	for _, entry := range classificationTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Type
			}
		}
	}
	return UnknownDocType
}

// AllDocTypes lists the known categories in classification order.
func AllDocTypes() []DocType {
	out := make([]DocType, 0, len(classificationTable))
	for _, entry := range classificationTable {
		out = append(out, entry.Type)
	}
	return out
}

// Label returns the report display name for a category.
func (t DocType) Label() string {
	switch t {
	case IdentityCard:
		return "Identity card"
	case ElectricalAuthorization:
		return "Electrical authorization"
	case SafetyDataSheet:
		return "Safety data sheet"
	case RefrigerationAptitude:
		return "Refrigeration aptitude"
	default:
		return "Unknown"
	}
}
