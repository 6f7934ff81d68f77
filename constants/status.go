package constants

// Status is the canonical validation outcome for a document.
type Status string

// Stable values (these exact strings appear in logs; display labels live in
// the export layer).
const (
	StatusConforming      Status = "CONFORMING"       // rule evaluated and passed
	StatusNonConforming   Status = "NON_CONFORMING"   // rule evaluated and failed
	StatusNeedsReview     Status = "NEEDS_REVIEW"     // decisive field absent, manual check required
	StatusExtractionError Status = "EXTRACTION_ERROR" // no usable text or mandatory identity data missing
)

// AllStatuses lists the outcomes in report order.
var AllStatuses = []Status{
	StatusConforming,
	StatusNonConforming,
	StatusNeedsReview,
	StatusExtractionError,
}
