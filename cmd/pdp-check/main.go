package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/export"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/llm"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/ocr"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/pipeline"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/scan"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/validate"
)

// Single-document debug tool: runs one file through the full pipeline and
// prints the verdict as JSON.
func main() {
	var (
		useLLM  = flag.Bool("use-llm", false, "cross-check extracted fields with the configured LLM")
		docType = flag.String("type", "", "force the document category instead of classifying by filename")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pdp-check [--use-llm] [--type CATEGORY] <document-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

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

	var assistant llm.Assistant = llm.NoopAssistant{}
	if *useLLM && cfg.LLM.APIKey != "" {
		assistant = llm.NewEnhancer(llm.NewChatClient(cfg.LLM, logger), logger)
	}

	category := constants.ClassifyFilename(filepath.Base(path))
	if *docType != "" {
		category = constants.DocType(*docType)
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

	row := processor.ProcessOne(ctx, scan.Document{
		Path:     path,
		Filename: filepath.Base(path),
		Company:  scan.UnspecifiedCompany,
		Type:     category,
		Format:   constants.MapExtToFormat(filepath.Ext(path)),
	})

	out, err := json.MarshalIndent(map[string]any{
		"file":        row.Filename,
		"category":    string(row.DocType),
		"surname":     row.Surname,
		"given_name":  row.GivenName,
		"valid_until": row.ValidUntil,
		"status":      string(row.Status),
		"label":       export.StatusLabel(row.Status),
		"message":     row.Message,
	}, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if row.Status != constants.StatusConforming {
		os.Exit(1)
	}
}
