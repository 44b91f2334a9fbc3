package materials

import (
	"path/filepath"
	"strings"
)

// Kind enum
type Kind string

const (
	KindPDF         Kind = "PDF"
	KindSpreadsheet Kind = "Spreadsheet"
	KindDocument    Kind = "Document"
)

var extensionKinds = map[string]Kind{
	"pdf":  KindPDF,
	"xlsx": KindSpreadsheet,
	"xls":  KindSpreadsheet,
	"csv":  KindSpreadsheet,
	"docx": KindDocument,
	"doc":  KindDocument,
}

// Extension returns the lowercased extension without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Accepts reports whether uploads with this file name are taken in.
func Accepts(name string) bool {
	_, ok := extensionKinds[Extension(name)]
	return ok
}

// KindFromName is total: unknown extensions map to KindPDF.
func KindFromName(name string) Kind {
	if k, ok := extensionKinds[Extension(name)]; ok {
		return k
	}
	return KindPDF
}

// ContentTypeFor guesses a MIME type for storage when the client sent none.
func ContentTypeFor(name string) string {
	switch Extension(name) {
	case "pdf":
		return "application/pdf"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "xls":
		return "application/vnd.ms-excel"
	case "csv":
		return "text/csv"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "doc":
		return "application/msword"
	default:
		return "application/octet-stream"
	}
}
