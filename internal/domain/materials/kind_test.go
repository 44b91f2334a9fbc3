package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromName(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"report.pdf", KindPDF},
		{"REPORT.PDF", KindPDF},
		{"returns.xlsx", KindSpreadsheet},
		{"legacy.xls", KindSpreadsheet},
		{"returns.csv", KindSpreadsheet},
		{"memo.docx", KindDocument},
		{"memo.doc", KindDocument},
		{"archive.tar.gz", KindPDF},
		{"noextension", KindPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromName(tt.name))
		})
	}
}

func TestAccepts(t *testing.T) {
	for _, name := range []string{"a.pdf", "a.xlsx", "a.xls", "a.csv", "a.docx", "a.doc", "A.CSV"} {
		assert.True(t, Accepts(name), name)
	}
	for _, name := range []string{"a.txt", "a.png", "pdf", "a.pdf.exe", ""} {
		assert.False(t, Accepts(name), name)
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusUploading.CanTransition(StatusReady))
	assert.True(t, StatusUploading.CanTransition(StatusError))
	assert.False(t, StatusUploading.CanTransition(StatusUploading))

	for _, from := range []Status{StatusReady, StatusError} {
		for _, to := range []Status{StatusUploading, StatusReady, StatusError} {
			assert.False(t, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestWithStatusLeavesOriginal(t *testing.T) {
	m := Material{ID: "1", Name: "a.pdf", Status: StatusUploading}
	ready := m.WithStatus(StatusReady)

	assert.Equal(t, StatusUploading, m.Status)
	assert.True(t, ready.Ready())
	assert.Equal(t, "materials/1/a.pdf", ready.BlobKey())
}
