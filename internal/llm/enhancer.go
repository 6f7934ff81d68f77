package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
)

// Enhancer asks the assistant to re-extract a category's fields from the
// raw document text and merges whatever comes back over the
// pattern-extracted fields. Assistant values win on overlap.
type Enhancer struct {
	client Client
	logger *slog.Logger
}

func NewEnhancer(client Client, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{client: client, logger: logger}
}

// Enhance never fails the pipeline: every error path returns the input
// fields unchanged together with an Enhancement describing what went wrong.
func (e *Enhancer) Enhance(ctx context.Context, doc fields.DocumentFields) (fields.DocumentFields, Enhancement) {
	prompt := BuildPrompt(doc.Type, doc.RawText)

	reply, err := e.client.Complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("llm.enhance.failed", "type", string(doc.Type), "error", err)
		return doc, Enhancement{Err: err.Error()}
	}

	obj, ok := ExtractJSONObject(reply)
	if !ok {
		e.logger.Warn("llm.enhance.no_json", "type", string(doc.Type), "reply_len", len(reply))
		return doc, Enhancement{Err: "no JSON object in reply", RawResponse: reply}
	}

	if err := ValidateJSONAgainstSchema(BuildFieldSchema(doc.Type), []byte(obj)); err != nil {
		e.logger.Warn("llm.enhance.schema_mismatch", "type", string(doc.Type), "error", err)
		return doc, Enhancement{Err: fmt.Sprintf("schema validation: %v", err), RawResponse: reply}
	}

	merged, keys, err := mergeReply(doc, []byte(obj), e.logger)
	if err != nil {
		e.logger.Warn("llm.enhance.merge_failed", "type", string(doc.Type), "error", err)
		return doc, Enhancement{Err: err.Error(), RawResponse: reply}
	}

	e.logger.Info("llm.enhance.ok", "type", string(doc.Type), "merged_keys", keys)
	return merged, Enhancement{Applied: len(keys) > 0, MergedKeys: keys, RawResponse: reply}
}

// ExtractJSONObject locates the JSON object inside a chatty reply: from the
// first '{' to the last '}'. Assistants often wrap the object in prose or
// code fences.
func ExtractJSONObject(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}

// replyFields is the union of all per-category reply keys; only the keys
// belonging to the document's category are merged.
type replyFields struct {
	Surname         string `json:"surname"`
	GivenName       string `json:"given_name"`
	ExpiryDate      string `json:"expiry_date"`
	IssueDate       string `json:"issue_date"`
	Level           string `json:"level"`
	Product         string `json:"product"`
	PublicationYear int    `json:"publication_year"`
	RevisionDate    string `json:"revision_date"`
	Category        string `json:"category"`
}

func mergeReply(doc fields.DocumentFields, obj []byte, logger *slog.Logger) (fields.DocumentFields, []string, error) {
	var r replyFields
	if err := json.Unmarshal(obj, &r); err != nil {
		return doc, nil, fmt.Errorf("decode reply: %w", err)
	}

	var keys []string
	setStr := func(dst *string, v, key string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
			keys = append(keys, key)
		}
	}
	setDate := func(dst **time.Time, v, key string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if t, ok := fields.ParseDate(v, logger); ok {
			*dst = &t
			keys = append(keys, key)
		}
	}

	switch doc.Type {
	case constants.IdentityCard:
		f := cloneIdentity(doc.Identity)
		setStr(&f.Surname, r.Surname, "surname")
		setStr(&f.GivenName, r.GivenName, "given_name")
		setDate(&f.ExpiryDate, r.ExpiryDate, "expiry_date")
		doc.Identity = f
	case constants.ElectricalAuthorization:
		f := cloneElectrical(doc.Electrical)
		setStr(&f.Surname, r.Surname, "surname")
		setStr(&f.GivenName, r.GivenName, "given_name")
		setDate(&f.IssueDate, r.IssueDate, "issue_date")
		setStr(&f.Level, r.Level, "level")
		doc.Electrical = f
	case constants.SafetyDataSheet:
		f := cloneSafetySheet(doc.SafetySheet)
		setStr(&f.ProductName, r.Product, "product")
		if r.PublicationYear != 0 {
			f.PublicationYear = r.PublicationYear
			keys = append(keys, "publication_year")
		}
		setDate(&f.RevisionDate, r.RevisionDate, "revision_date")
		doc.SafetySheet = f
	case constants.RefrigerationAptitude:
		f := cloneRefrigeration(doc.Refrigeration)
		setStr(&f.Surname, r.Surname, "surname")
		setStr(&f.GivenName, r.GivenName, "given_name")
		setStr(&f.Category, r.Category, "category")
		doc.Refrigeration = f
	default:
		return doc, nil, fmt.Errorf("unmergeable document type: %s", doc.Type)
	}
	return doc, keys, nil
}

func cloneIdentity(f *fields.IdentityCardFields) *fields.IdentityCardFields {
	if f == nil {
		return &fields.IdentityCardFields{}
	}
	c := *f
	return &c
}

func cloneElectrical(f *fields.ElectricalAuthFields) *fields.ElectricalAuthFields {
	if f == nil {
		return &fields.ElectricalAuthFields{}
	}
	c := *f
	return &c
}

func cloneSafetySheet(f *fields.SafetySheetFields) *fields.SafetySheetFields {
	if f == nil {
		return &fields.SafetySheetFields{}
	}
	c := *f
	return &c
}

func cloneRefrigeration(f *fields.RefrigerationFields) *fields.RefrigerationFields {
	if f == nil {
		return &fields.RefrigerationFields{}
	}
	c := *f
	return &c
}
