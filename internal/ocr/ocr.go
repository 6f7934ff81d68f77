package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
)

// Provenance records where extracted text came from.
type Provenance string

const (
	ProvenanceNative Provenance = "NATIVE"
	ProvenanceOCR    Provenance = "OCR"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // default "fra"
	OEM      int    // tesseract engine mode, default 3
	PSM      int    // page segmentation mode, default 6
	DPI      int    // rasterization DPI for scanned PDFs, default 300

	MinTextLen int // native text below this length falls through to OCR, default 50
	MaxPages   int // 0 = no limit
}

// ExtractionResult is the outcome of one text extraction.
type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType constants.FileFormat
	Provenance Provenance
	Method     string // "pdf-layout" | "pdf-stream" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "fra"
	}
	if cfg.OEM <= 0 {
		cfg.OEM = 3
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextLen <= 0 {
		cfg.MinTextLen = 50
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// CheckOCR verifies the tesseract binary is runnable. Called once at startup
// so a missing OCR capability aborts the run instead of producing an error
// verdict for every scanned document.
func (e *Extractor) CheckOCR(ctx context.Context) error {
	if _, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version"); err != nil {
		return common.NewAppError("OCR_UNAVAILABLE",
			fmt.Sprintf("%s not runnable: %s", e.cfg.Tesseract, strings.TrimSpace(string(errb))),
			common.ErrOCRUnavailable)
	}
	return nil
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.Image:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("ocr.extract.unsupported_ext", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

// extractPDF tries layout-aware native text, then a plain text-stream read,
// then falls back to page-by-page OCR when the native text is too short to
// be a real text layer.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	var warns []string

	text, pages, w, err := e.pdfLayoutText(ctx, path)
	warns = append(warns, w...)
	method := "pdf-layout"
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			e.logger.Warn("ocr.pdf.layout_failed", "path", path, "error", err)
		}
		text, pages, err = e.pdfStreamText(path)
		method = "pdf-stream"
		if err != nil {
			warns = append(warns, err.Error())
			e.logger.Warn("ocr.pdf.stream_failed", "path", path, "error", err)
			text = ""
		}
	}

	if len(strings.TrimSpace(text)) >= e.cfg.MinTextLen {
		return ExtractionResult{
			Text:       text,
			Pages:      pages,
			SourceType: constants.PDF,
			Provenance: ProvenanceNative,
			Method:     method,
			Language:   e.cfg.Language,
			Warnings:   warns,
		}, nil
	}

	// Little or no native text: treat as a scanned document.
	e.logger.Info("ocr.pdf.scanned_detected", "path", path, "native_len", len(strings.TrimSpace(text)))
	ocrText, ocrPages, w2, err := e.pdfToOCR(ctx, path)
	warns = append(warns, w2...)
	if err != nil {
		// No OCR output and no usable native text: nothing left to try.
		if strings.TrimSpace(text) == "" {
			return ExtractionResult{SourceType: constants.PDF, Warnings: warns},
				common.WrapError(common.ErrNoExtraction, path)
		}
		// Keep the short native text rather than failing outright.
		e.logger.Warn("ocr.pdf.ocr_failed_keeping_native", "path", path, "error", err)
		return ExtractionResult{
			Text:       text,
			Pages:      pages,
			SourceType: constants.PDF,
			Provenance: ProvenanceNative,
			Method:     method,
			Language:   e.cfg.Language,
			Warnings:   warns,
		}, nil
	}
	return ExtractionResult{
		Text:       ocrText,
		Pages:      ocrPages,
		SourceType: constants.PDF,
		Provenance: ProvenanceOCR,
		Method:     "pdf-ocr",
		Language:   e.cfg.Language,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return ExtractionResult{SourceType: constants.Image, Warnings: warn},
			common.WrapError(common.ErrNoExtraction, path)
	}
	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.Image,
		Provenance: ProvenanceOCR,
		Method:     "image-ocr",
		Language:   e.cfg.Language,
		Warnings:   warn,
	}, nil
}
