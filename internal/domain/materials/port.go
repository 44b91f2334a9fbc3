package materials

import "context"

// Repository holds material records. Implementations replace whole records so
// readers never see a half-updated one.
type Repository interface {
	Add(m Material) error
	Get(id ID) (Material, error)
	// Transition moves a record out of Uploading. Returns errs.ErrNotFound for
	// absent ids and ErrInvalidTransition for anything else illegal.
	Transition(id ID, to Status) (Material, error)
	Remove(id ID) (Material, error)
	List() []Material
	ListReady() []Material
}

// BlobStore is the upload transport; Put returning is the completion signal.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
