package constants

import "strings"

// MaxUploadBytes is the per-file ceiling enforced by the upload queue (10 MB).
const MaxUploadBytes int64 = 10 * 1024 * 1024

// MimePDF is the only document type the extractor forwards to the model.
const MimePDF = "application/pdf"

// AllowedExtensions holds the file extensions picked up by directory ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFMime reports whether a declared mime type names a PDF.
// Browsers are inconsistent here (application/pdf, application/x-pdf), so any
// type mentioning pdf is accepted.
func IsPDFMime(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "pdf")
}
