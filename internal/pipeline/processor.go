package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/export"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/llm"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/ocr"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/scan"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/validate"
)

// TextExtractor yields the raw text of a document file. *ocr.Extractor is
// the production implementation; tests stub it.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// Processor runs one document through extract, field parsing, optional
// assistant enhancement, and validation.
type Processor struct {
	extractor TextExtractor
	fields    *fields.Extractor
	engine    *validate.Engine
	assistant llm.Assistant
	stats     *validate.StatsAccumulator

	// DocTimeout bounds each document's processing. Zero disables it.
	DocTimeout time.Duration

	logger *slog.Logger
}

func NewProcessor(extractor TextExtractor, fx *fields.Extractor, engine *validate.Engine, assistant llm.Assistant, stats *validate.StatsAccumulator, logger *slog.Logger) *Processor {
	if assistant == nil {
		assistant = llm.NoopAssistant{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		extractor: extractor,
		fields:    fx,
		engine:    engine,
		assistant: assistant,
		stats:     stats,
		logger:    logger,
	}
}

// ProcessOne always produces a report row. Failures along the way degrade
// into an extraction-error verdict rather than aborting the batch. The
// document's status is recorded against batch statistics exactly once.
func (p *Processor) ProcessOne(ctx context.Context, doc scan.Document) export.Row {
	start := time.Now()

	if p.DocTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.DocTimeout)
		defer cancel()
	}

	row := export.Row{
		Company:  doc.Company,
		DocType:  doc.Type,
		Filename: doc.Filename,
	}

	verdict := p.run(ctx, doc, &row)

	row.Status = verdict.Status
	row.Message = verdict.Message
	row.ValidUntil = verdict.ValidUntil
	p.stats.Record(verdict.Status)

	p.logger.Info("pipeline.document.done",
		"file", doc.Filename,
		"company", doc.Company,
		"type", string(doc.Type),
		"status", string(verdict.Status),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return row
}

func (p *Processor) run(ctx context.Context, doc scan.Document, row *export.Row) validate.Verdict {
	if doc.Type == constants.UnknownDocType {
		return validate.Verdict{
			Status:  constants.StatusExtractionError,
			Message: "unrecognized document type",
		}
	}

	res, err := p.extractor.Extract(ctx, doc.Path)
	if err != nil {
		p.logger.Warn("pipeline.extract.failed", "file", doc.Filename, "error", err)
		return validate.Verdict{
			Status:  constants.StatusExtractionError,
			Message: "text extraction failed: " + err.Error(),
		}
	}

	parsed := p.fields.Extract(res.Text, doc.Type)

	if _, ok := p.assistant.(llm.NoopAssistant); !ok {
		enhanced, enh := p.assistant.Enhance(ctx, parsed)
		if enh.Err != "" {
			p.logger.Warn("pipeline.enhance.skipped", "file", doc.Filename, "error", enh.Err)
		} else {
			parsed = enhanced
		}
	}

	row.Surname = parsed.Surname()
	row.GivenName = parsed.GivenName()

	return p.engine.Validate(parsed)
}
