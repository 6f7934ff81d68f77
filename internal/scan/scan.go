package scan

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
)

// UnspecifiedCompany labels documents sitting directly under the scan root,
// outside any company folder.
const UnspecifiedCompany = "unspecified"

// Document is one compliance file discovered under the scan root.
type Document struct {
	Path     string
	Filename string
	Company  string
	Type     constants.DocType
	Format   constants.FileFormat
}

// Stats summarizes one directory walk.
type Stats struct {
	Scanned      uint32
	Matched      uint32
	Hidden       uint32
	Unsupported  uint32
	Unclassified uint32
	Failed       uint32
}

type Scanner struct {
	logger *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ScanDirectory walks root recursively and returns every supported document,
// classified by filename and labeled with the company folder it sits in.
// Hidden files and directories are skipped. Results are ordered by path so a
// scan is deterministic regardless of filesystem ordering.
func (s *Scanner) ScanDirectory(root string) ([]Document, Stats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, Stats{}, errors.New("input directory is required")
	}
	root = filepath.Clean(root)

	var docs []Document
	var stats Stats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.logger.Warn("scan.walk_error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if isHidden(path) && path != root {
			stats.Hidden++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++

		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.SupportedExtensions[ext]; !ok {
			stats.Unsupported++
			return nil
		}
		stats.Matched++

		docType := constants.ClassifyFilename(filepath.Base(path))
		if docType == constants.UnknownDocType {
			stats.Unclassified++
		}

		docs = append(docs, Document{
			Path:     path,
			Filename: filepath.Base(path),
			Company:  companyFor(root, path),
			Type:     docType,
			Format:   constants.MapExtToFormat(ext),
		})
		return nil
	})
	if err != nil {
		return docs, stats, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	s.logger.Info("scan.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"hidden", stats.Hidden,
		"unsupported", stats.Unsupported,
		"unclassified", stats.Unclassified,
	)
	return docs, stats, nil
}

// companyFor derives the company label from the first path segment between
// the scan root and the file.
func companyFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return UnspecifiedCompany
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return UnspecifiedCompany
	}
	return parts[0]
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
