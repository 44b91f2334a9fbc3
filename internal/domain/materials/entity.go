package materials

import (
	"time"
)

// ID identifies a material; generated at upload time.
type ID string

// Status enum
type Status string

const (
	StatusUploading Status = "uploading"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// CanTransition holds the lifecycle Uploading -> Ready | Error.
func (s Status) CanTransition(to Status) bool {
	return s == StatusUploading && to.Terminal()
}

// Material is an uploaded document tracked through its upload lifecycle.
type Material struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Kind        Kind      `json:"kind"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Status      Status    `json:"status"`
}

// Ready is the eligibility rule for analysis and chat attachment.
func (m Material) Ready() bool {
	return m.Status == StatusReady
}

// BlobKey is where the material's bytes live in the blob store.
func (m Material) BlobKey() string {
	return "materials/" + string(m.ID) + "/" + m.Name
}

// WithStatus returns a copy with the status replaced. Stores swap whole records.
func (m Material) WithStatus(s Status) Material {
	m.Status = s
	return m
}
