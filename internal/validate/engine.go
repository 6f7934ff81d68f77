package validate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
)

// DateDisplayFormat is how validity dates appear in messages and reports.
const DateDisplayFormat = "02/01/2006"

// LifetimeValidity is the valid-until sentinel for documents with no expiry.
const LifetimeValidity = "for life"

// Unspecified is the placeholder for absent display-only fields.
const Unspecified = "unspecified"

// Verdict is the conformity outcome for a single document.
type Verdict struct {
	Status     constants.Status
	Message    string
	ValidUntil string
	// Extras carries category-specific display fields (authorization level,
	// product name, aptitude category) regardless of status.
	Extras map[string]string
}

// Engine applies the per-category business rules to extracted fields.
type Engine struct {
	rules  common.RulesConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewEngine(rules common.RulesConfig, logger *slog.Logger) *Engine {
	return newEngineAt(rules, logger, time.Now)
}

// newEngineAt injects the clock; tests pin it to a fixed instant.
func newEngineAt(rules common.RulesConfig, logger *slog.Logger, now func() time.Time) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if rules.AuthorizationYears <= 0 {
		rules.AuthorizationYears = 3
	}
	if rules.SafetySheetMinYear <= 0 {
		rules.SafetySheetMinYear = 2021
	}
	return &Engine{rules: rules, now: now, logger: logger}
}

// Validate routes the field map to its category rule. Outcomes are checked
// in a fixed priority: missing identity, then missing decisive date/year,
// then the expiry rule itself.
func (e *Engine) Validate(doc fields.DocumentFields) Verdict {
	var v Verdict
	switch doc.Type {
	case constants.IdentityCard:
		v = e.validateIdentityCard(doc.Identity)
	case constants.ElectricalAuthorization:
		v = e.validateElectricalAuth(doc.Electrical)
	case constants.SafetyDataSheet:
		v = e.validateSafetySheet(doc.SafetySheet)
	case constants.RefrigerationAptitude:
		v = e.validateRefrigeration(doc.Refrigeration)
	default:
		v = Verdict{
			Status:  constants.StatusExtractionError,
			Message: fmt.Sprintf("unrecognized document type: %s", doc.Type),
		}
	}
	e.logger.Debug("validate.verdict", "type", string(doc.Type), "status", string(v.Status))
	return v
}

// today is the current calendar date with the time component dropped, so
// a document expiring today still counts as valid for the whole day.
func (e *Engine) today() time.Time {
	n := e.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func (e *Engine) validateIdentityCard(f *fields.IdentityCardFields) Verdict {
	if f == nil || f.Surname == "" || f.GivenName == "" {
		return Verdict{
			Status:  constants.StatusExtractionError,
			Message: "surname or given name missing",
		}
	}
	if f.ExpiryDate == nil {
		return Verdict{
			Status:  constants.StatusNeedsReview,
			Message: "expiry date not found - manual check required",
		}
	}
	expiry := *f.ExpiryDate
	if expiry.Before(e.today()) {
		return Verdict{
			Status:     constants.StatusNonConforming,
			Message:    fmt.Sprintf("identity card expired on %s", expiry.Format(DateDisplayFormat)),
			ValidUntil: expiry.Format(DateDisplayFormat),
		}
	}
	return Verdict{
		Status:     constants.StatusConforming,
		Message:    fmt.Sprintf("identity card valid until %s", expiry.Format(DateDisplayFormat)),
		ValidUntil: expiry.Format(DateDisplayFormat),
	}
}

func (e *Engine) validateElectricalAuth(f *fields.ElectricalAuthFields) Verdict {
	extras := map[string]string{"level": Unspecified}
	if f != nil && f.Level != "" {
		extras["level"] = f.Level
	}
	if f == nil || f.Surname == "" || f.GivenName == "" {
		return Verdict{
			Status:  constants.StatusExtractionError,
			Message: "surname or given name missing",
			Extras:  extras,
		}
	}
	if f.IssueDate == nil {
		return Verdict{
			Status:  constants.StatusNeedsReview,
			Message: "issue date not found - manual check required",
			Extras:  extras,
		}
	}
	// Validity runs from the issue date; the reported date is the computed
	// expiry, never the issue date itself.
	expiry := f.IssueDate.AddDate(0, 0, e.rules.AuthorizationYears*365)
	if expiry.Before(e.today()) {
		return Verdict{
			Status:     constants.StatusNonConforming,
			Message:    fmt.Sprintf("authorization expired on %s", expiry.Format(DateDisplayFormat)),
			ValidUntil: expiry.Format(DateDisplayFormat),
			Extras:     extras,
		}
	}
	return Verdict{
		Status:     constants.StatusConforming,
		Message:    fmt.Sprintf("authorization valid until %s", expiry.Format(DateDisplayFormat)),
		ValidUntil: expiry.Format(DateDisplayFormat),
		Extras:     extras,
	}
}

func (e *Engine) validateSafetySheet(f *fields.SafetySheetFields) Verdict {
	extras := map[string]string{"product": Unspecified}
	if f != nil && f.ProductName != "" {
		extras["product"] = f.ProductName
	}
	if f == nil || f.PublicationYear == 0 {
		return Verdict{
			Status:  constants.StatusNeedsReview,
			Message: "publication year not found - manual check required",
			Extras:  extras,
		}
	}
	if f.PublicationYear < e.rules.SafetySheetMinYear {
		return Verdict{
			Status: constants.StatusNonConforming,
			Message: fmt.Sprintf("safety data sheet out of date (year %d, minimum required %d)",
				f.PublicationYear, e.rules.SafetySheetMinYear),
			ValidUntil: fmt.Sprintf("%d", f.PublicationYear),
			Extras:     extras,
		}
	}
	return Verdict{
		Status:     constants.StatusConforming,
		Message:    fmt.Sprintf("safety data sheet up to date (year %d)", f.PublicationYear),
		ValidUntil: fmt.Sprintf("%d", f.PublicationYear),
		Extras:     extras,
	}
}

func (e *Engine) validateRefrigeration(f *fields.RefrigerationFields) Verdict {
	extras := map[string]string{"category": Unspecified}
	if f != nil && f.Category != "" {
		extras["category"] = f.Category
	}
	if f == nil || f.Surname == "" || f.GivenName == "" {
		return Verdict{
			Status:  constants.StatusExtractionError,
			Message: "surname or given name missing",
			Extras:  extras,
		}
	}
	// No expiry: the aptitude is valid for life once identity is known.
	return Verdict{
		Status:     constants.StatusConforming,
		Message:    "refrigeration aptitude valid for life",
		ValidUntil: LifetimeValidity,
		Extras:     extras,
	}
}
