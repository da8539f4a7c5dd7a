package constants

import "strings"

// Attachment formats the acquisition layer knows how to turn into text.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	XLSX  = "XLSX"
	TXT   = "TXT"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to an acquisition format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff", "webp":
		return IMAGE
	case "xlsx", "xlsm":
		return XLSX
	case "txt", "text", "md", "eml":
		return TXT
	default:
		return ""
	}
}
