package fields

import (
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
)

// IdentityCardFields are the typed values recovered from an identity card.
// Zero values mean the field was absent; absence is an outcome, not an
// error, and severity is the validation engine's call.
type IdentityCardFields struct {
	Surname    string
	GivenName  string
	ExpiryDate *time.Time
}

// ElectricalAuthFields are the typed values recovered from an
// electrical-work authorization.
type ElectricalAuthFields struct {
	Surname   string
	GivenName string
	IssueDate *time.Time
	Level     string
}

// SafetySheetFields are the typed values recovered from a safety data
// sheet. Safety sheets carry no personal identity.
type SafetySheetFields struct {
	ProductName     string
	PublicationYear int
	RevisionDate    *time.Time
}

// RefrigerationFields are the typed values recovered from a
// refrigeration-aptitude certificate.
type RefrigerationFields struct {
	Surname   string
	GivenName string
	Category  string
}

// DocumentFields is the per-category field map for one document. Exactly
// one of the category members is set, matching Type.
type DocumentFields struct {
	Type          constants.DocType
	Identity      *IdentityCardFields
	Electrical    *ElectricalAuthFields
	SafetySheet   *SafetySheetFields
	Refrigeration *RefrigerationFields
	RawText       string
}

// Surname returns the extracted surname for categories that carry one.
func (d DocumentFields) Surname() string {
	switch {
	case d.Identity != nil:
		return d.Identity.Surname
	case d.Electrical != nil:
		return d.Electrical.Surname
	case d.Refrigeration != nil:
		return d.Refrigeration.Surname
	}
	return ""
}

// GivenName returns the extracted given name for categories that carry one.
func (d DocumentFields) GivenName() string {
	switch {
	case d.Identity != nil:
		return d.Identity.GivenName
	case d.Electrical != nil:
		return d.Electrical.GivenName
	case d.Refrigeration != nil:
		return d.Refrigeration.GivenName
	}
	return ""
}

// Extractor applies the per-category rule tables to extracted text.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract recovers the typed fields for the given category. It never fails:
// fields whose rules all miss stay absent.
func (e *Extractor) Extract(text string, docType constants.DocType) DocumentFields {
	out := DocumentFields{Type: docType, RawText: text}
	switch docType {
	case constants.IdentityCard:
		out.Identity = &IdentityCardFields{
			Surname:    matchFirst(text, surnamePatterns),
			GivenName:  matchFirst(text, givenNamePatterns),
			ExpiryDate: e.extractDate(text, expiryDatePatterns),
		}
	case constants.ElectricalAuthorization:
		out.Electrical = &ElectricalAuthFields{
			Surname:   matchFirst(text, surnamePatterns),
			GivenName: matchFirst(text, givenNamePatterns),
			IssueDate: e.extractDate(text, issueDatePatterns),
			Level:     matchFirst(text, authorizationLevelPatterns),
		}
	case constants.SafetyDataSheet:
		out.SafetySheet = &SafetySheetFields{
			ProductName:     matchFirst(text, productNamePatterns),
			PublicationYear: e.extractYear(text, publicationYearPatterns),
			RevisionDate:    e.extractDate(text, revisionDatePatterns),
		}
	case constants.RefrigerationAptitude:
		out.Refrigeration = &RefrigerationFields{
			Surname:   matchFirst(text, surnamePatterns),
			GivenName: matchFirst(text, givenNamePatterns),
			Category:  matchFirst(text, aptitudeCategoryPatterns),
		}
	}
	return out
}

func (e *Extractor) extractDate(text string, patterns []*regexp.Regexp) *time.Time {
	raw := matchFirst(text, patterns)
	if raw == "" {
		return nil
	}
	t, ok := ParseDate(raw, e.logger)
	if !ok {
		return nil
	}
	return &t
}

func (e *Extractor) extractYear(text string, patterns []*regexp.Regexp) int {
	raw := matchFirst(text, patterns)
	if raw == "" {
		return 0
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("fields.year.not_numeric", "raw", raw)
		return 0
	}
	return year
}
