package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/validate"
)

// Row is one line of the compliance report.
type Row struct {
	Company    string
	Surname    string
	GivenName  string
	DocType    constants.DocType
	Filename   string
	ValidUntil string
	Status     constants.Status
	Message    string
}

var headers = []string{
	"Entreprise",
	"Nom Personne",
	"Prénom Personne",
	"Type Document",
	"Fichier",
	"Date Validité",
	"Statut",
	"Commentaire",
}

// Cell styling per status, matching the established report look.
var statusFills = map[constants.Status]struct{ fill, font string }{
	constants.StatusConforming:      {"C6EFCE", "006100"},
	constants.StatusNonConforming:   {"FFC7CE", "9C0006"},
	constants.StatusExtractionError: {"FFEB9C", "9C6500"},
	constants.StatusNeedsReview:     {"E7E6E6", "3F3F3F"},
}

var statusLabels = map[constants.Status]string{
	constants.StatusConforming:      "CONFORME",
	constants.StatusNonConforming:   "NON CONFORME",
	constants.StatusExtractionError: "ERREUR",
	constants.StatusNeedsReview:     "À VÉRIFIER",
}

// Reporter writes XLSX compliance reports.
type Reporter struct {
	cfg    common.ExcelConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewReporter(cfg common.ExcelConfig, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Conformité Documents"
	}
	return &Reporter{cfg: cfg, now: time.Now, logger: logger}
}

// WriteReport renders rows plus a statistics block into a timestamped
// workbook under outDir and returns the written path.
func (r *Reporter) WriteReport(rows []Row, stats validate.BatchStatistics, outDir string) (string, error) {
	start := time.Now()

	buf, err := r.Render(rows, stats)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("Rapport_PDP_%s.xlsx", r.now().Format("20060102_150405"))
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	r.logger.Info("export.xlsx.ok",
		"path", path,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}

// Render produces the workbook bytes without touching the filesystem.
func (r *Reporter) Render(rows []Row, stats validate.BatchStatistics) ([]byte, error) {
	f := excelize.NewFile()
	sheet := r.cfg.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := r.writeHeader(f, sheet); err != nil {
		return nil, err
	}
	if err := r.writeRows(f, sheet, rows); err != nil {
		return nil, err
	}
	if err := r.applyLayout(f, sheet); err != nil {
		return nil, err
	}
	if err := r.writeStatistics(f, sheet, len(rows)+4, stats); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Reporter) writeHeader(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeRows(f *excelize.File, sheet string, rows []Row) error {
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("body style: %w", err)
	}

	statusStyles := make(map[constants.Status]int, len(statusFills))
	for status, c := range statusFills {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: c.font},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.fill}},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
			Border: thinBorder(),
		})
		if err != nil {
			return fmt.Errorf("status style: %w", err)
		}
		statusStyles[status] = id
	}

	for i, row := range rows {
		n := i + 2
		values := []any{
			orDefault(row.Company, "Non spécifié"),
			orDefault(row.Surname, "Non trouvé"),
			orDefault(row.GivenName, "Non trouvé"),
			row.DocType.Label(),
			row.Filename,
			orDefault(row.ValidUntil, "N/A"),
			StatusLabel(row.Status),
			row.Message,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, n)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			style := bodyStyle
			if col == 6 {
				if id, ok := statusStyles[row.Status]; ok {
					style = id
				}
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reporter) applyLayout(f *excelize.File, sheet string) error {
	widths := []struct {
		col   string
		width float64
	}{
		{"A", 20}, {"B", 15}, {"C", 15}, {"D", 20},
		{"E", 30}, {"F", 15}, {"G", 18}, {"H", 40},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.col, w.col, w.width); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (r *Reporter) writeStatistics(f *excelize.File, sheet string, startRow int, stats validate.BatchStatistics) error {
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	footStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true, Size: 9}})
	if err != nil {
		return err
	}

	cell, _ := excelize.CoordinatesToCellName(1, startRow)
	if err := f.SetCellValue(sheet, cell, "STATISTIQUES"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, cell, titleStyle); err != nil {
		return err
	}

	lines := []struct {
		label string
		value any
	}{
		{"Total documents analysés:", stats.Total},
		{"Conformes:", stats.Conforming},
		{"Non conformes:", stats.NonConforming},
		{"Erreurs:", stats.ExtractionError},
		{"À vérifier:", stats.NeedsReview},
		{"Taux de conformité:", fmt.Sprintf("%.1f%%", stats.ConformityRate)},
	}
	for i, line := range lines {
		row := startRow + 1 + i
		lc, _ := excelize.CoordinatesToCellName(1, row)
		vc, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(sheet, lc, line.label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, lc, lc, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, vc, line.value); err != nil {
			return err
		}
	}

	footRow := startRow + len(lines) + 3
	fc, _ := excelize.CoordinatesToCellName(1, footRow)
	generated := fmt.Sprintf("Rapport généré le: %s", r.now().Format("02/01/2006 à 15:04:05"))
	if err := f.SetCellValue(sheet, fc, generated); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, fc, fc, footStyle)
}

// StatusLabel returns the display label used in the report's status column.
func StatusLabel(s constants.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
