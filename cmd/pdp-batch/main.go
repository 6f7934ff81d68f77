package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/export"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/llm"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/ocr"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/pipeline"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/scan"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/validate"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input   = flag.String("input", "", "directory of documents to check, one subfolder per company (required)")
		out     = flag.String("out", "", "output directory for the XLSX report (defaults to the input's parent)")
		useLLM  = flag.Bool("use-llm", false, "cross-check extracted fields with the configured LLM")
		workers = flag.Int("workers", pipeline.DefaultWorkers, "number of documents processed in parallel")
		timeout = flag.Duration("timeout", 2*time.Minute, "per-document processing timeout (0 disables)")
	)
	flag.Parse()

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Dir(filepath.Clean(*input))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:  cfg.OCR.Pdftotext,
		Pdftoppm:   cfg.OCR.Pdftoppm,
		Tesseract:  cfg.OCR.Tesseract,
		Language:   cfg.OCR.Language,
		OEM:        cfg.OCR.OEM,
		PSM:        cfg.OCR.PSM,
		DPI:        cfg.OCR.DPI,
		MinTextLen: cfg.OCR.MinTextLen,
	}, logger)

	// A missing tesseract would turn every scanned document into an
	// extraction error, so abort once up front.
	if err := extractor.CheckOCR(ctx); err != nil {
		logger.Error("OCR engine unavailable", "error", err)
		os.Exit(1)
	}

	var assistant llm.Assistant = llm.NoopAssistant{}
	if *useLLM {
		if cfg.LLM.APIKey == "" {
			logger.Warn("LLM API key not configured, cross-checking disabled")
		} else {
			assistant = llm.NewEnhancer(llm.NewChatClient(cfg.LLM, logger), logger)
			logger.Info("LLM cross-checking enabled", "model", cfg.LLM.Model)
		}
	}

	scanner := scan.NewScanner(logger)
	docs, scanStats, err := scanner.ScanDirectory(*input)
	if err != nil {
		logger.Error("failed to scan input directory", "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		logger.Warn("no supported documents found", "input", *input)
	}

	stats := validate.NewStatsAccumulator()
	processor := pipeline.NewProcessor(
		extractor,
		fields.NewExtractor(logger),
		validate.NewEngine(cfg.Rules, logger),
		assistant,
		stats,
		logger,
	)
	processor.DocTimeout = *timeout

	rows := processor.ProcessAll(ctx, docs, *workers)
	batch := stats.Snapshot()

	reporter := export.NewReporter(cfg.Excel, logger)
	reportPath, err := reporter.WriteReport(rows, batch, *out)
	if err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"scanned", scanStats.Scanned,
		"matched", scanStats.Matched,
		"unclassified", scanStats.Unclassified,
		"conforming", batch.Conforming,
		"non_conforming", batch.NonConforming,
		"needs_review", batch.NeedsReview,
		"extraction_errors", batch.ExtractionError,
		"conformity_rate", batch.ConformityRate,
		"report", reportPath,
	)

	fmt.Printf("Compliance check complete!\n")
	fmt.Printf("- Documents analyzed: %d\n", batch.Total)
	fmt.Printf("- Conforming: %d\n", batch.Conforming)
	fmt.Printf("- Non conforming: %d\n", batch.NonConforming)
	fmt.Printf("- Needs review: %d\n", batch.NeedsReview)
	fmt.Printf("- Extraction errors: %d\n", batch.ExtractionError)
	fmt.Printf("- Conformity rate: %.1f%%\n", batch.ConformityRate)
	fmt.Printf("- Report: %s\n", reportPath)
}
