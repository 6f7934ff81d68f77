package fields

import (
	"regexp"
	"strings"
)

// Each field is extracted with an ordered list of rules: the first pattern
// that matches anywhere in the text wins and its first capture group becomes
// the value. Later entries are deliberately permissive last-resort fallbacks
// (a bare date, a bare four-digit number), so the ORDER of each list is a
// behavioral contract, not a style choice. See the precedence tests before
// reordering anything here.

// Name captures stop at the end of the line; the label of the next field
// would otherwise be swallowed into the value.
var surnamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Nom[:\s]+([A-ZÀÉÈÊËÏÔÙÛÇ\- \t]+)`),
	regexp.MustCompile(`(?im)Surname[:\s]+([A-ZÀÉÈÊËÏÔÙÛÇ\- \t]+)`),
}

var givenNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Prénom[:\s]+([A-ZÀÉÈÊËÏÔÙÛÇa-zàéèêëïôùûç\- \t]+)`),
	regexp.MustCompile(`(?im)Prenom[:\s]+([A-ZÀÉÈÊËÏÔÙÛÇa-zàéèêëïôùûç\- \t]+)`),
	regexp.MustCompile(`(?im)Given names?[:\s]+([A-ZÀÉÈÊËÏÔÙÛÇa-zàéèêëïôùûç\- \t]+)`),
}

var expiryDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Valable jusqu'au[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	regexp.MustCompile(`(?im)Valid until[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	regexp.MustCompile(`(?im)Expire le[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	// last resort: any date-shaped token
	regexp.MustCompile(`(?im)(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
}

var issueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Délivré le[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	regexp.MustCompile(`(?im)Date de délivrance[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	regexp.MustCompile(`(?im)Issued on[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
}

var publicationYearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Version[:\s]+\d+[/.\-](\d{4})`),
	regexp.MustCompile(`(?im)Date de révision[:\s]+\d{2}[/.\-]\d{2}[/.\-](\d{4})`),
	// last resort: any four-digit number
	regexp.MustCompile(`(?im)(\d{4})`),
}

var revisionDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Date de révision[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	regexp.MustCompile(`(?im)Revision date[:\s]+(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
}

var productNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Produit[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?im)Nom du produit[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?im)Product name[:\s]+([^\n]+)`),
}

var authorizationLevelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Niveau[:\s]+([BH][0-9VRT]+)`),
	regexp.MustCompile(`(?im)Habilitation[:\s]+([BH][0-9VRT]+)`),
	// last resort: any level-shaped code
	regexp.MustCompile(`(?im)([BH][0-9VRT]+)`),
}

var aptitudeCategoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Catégorie[:\s]+([IVX]+)`),
	regexp.MustCompile(`(?im)Cat\.[:\s]+([IVX]+)`),
}

// matchFirst evaluates the ordered rule list and returns the first rule's
// first capture group, trimmed. Empty string means no rule matched.
func matchFirst(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
