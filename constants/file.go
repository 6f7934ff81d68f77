package constants

import "strings"

// FileFormat is the coarse input format driving the extraction strategy.
type FileFormat string

const (
	PDF   FileFormat = "PDF"
	Image FileFormat = "IMAGE"
)

// SupportedExtensions holds the default allowed file extensions for document
// ingestion (normalized, without dot).
var SupportedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its extraction format. Returns ""
// for unsupported extensions.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "tif", "tiff":
		return Image
	default:
		return ""
	}
}
