package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/ocr"
)

// Extraction debug tool: runs text extraction on one file and prints the
// recovered text, so OCR tuning does not require a full batch run.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "pdp-ocr <document-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := common.LoadConfig()
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

	start := time.Now()
	res, err := extractor.Extract(ctx, path)
	dur := time.Since(start)

	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"method", res.Method,
		"provenance", string(res.Provenance),
		"pages", res.Pages,
		"bytes", len(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(res.Text)
}
