package materials

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/keynes-workspace/internal/application"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/pkg/logger"
)

// Service implements the material use-cases: upload, lifecycle, removal.
type Service struct {
	Repo  domain.Repository
	Blobs domain.BlobStore
	Clock application.Clock
	Log   *logger.Logger
}

// FileDescriptor is an upload as received from the client.
type FileDescriptor struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload records the material as Uploading and starts the transfer in the
// background. The returned handle resolves with the terminal record, or with
// errs.ErrNotFound when the material was removed before the transfer finished.
func (s *Service) Upload(f FileDescriptor) (domain.Material, *application.Pending[domain.Material], error) {
	if !domain.Accepts(f.Name) {
		return domain.Material{}, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, f.Name)
	}
	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = domain.ContentTypeFor(f.Name)
	}

	m := domain.Material{
		ID:          domain.ID(uuid.New().String()),
		Name:        f.Name,
		Kind:        domain.KindFromName(f.Name),
		ContentType: contentType,
		Size:        int64(len(f.Data)),
		UploadedAt:  application.ClockOrSystem(s.Clock).Now(),
		Status:      domain.StatusUploading,
	}
	if err := s.Repo.Add(m); err != nil {
		return domain.Material{}, nil, err
	}

	log := logger.OrNop(s.Log).With("material_id", m.ID, "name", m.Name)
	data := f.Data
	pending := application.Go(func() (domain.Material, error) {
		// detached from the request so the transfer runs to completion
		putErr := s.Blobs.Put(context.Background(), m.BlobKey(), data, contentType)
		if putErr != nil {
			log.Warn("material upload failed", "error", putErr)
			return s.settle(m, domain.StatusError, log)
		}
		return s.settle(m, domain.StatusReady, log)
	})
	return m, pending, nil
}

func (s *Service) settle(m domain.Material, to domain.Status, log *logger.Logger) (domain.Material, error) {
	updated, err := s.Repo.Transition(m.ID, to)
	if errors.Is(err, errs.ErrNotFound) {
		// removed while uploading; the stored bytes have no owner any more
		log.Debug("material removed before upload completed")
		if to == domain.StatusReady {
			_ = s.Blobs.Delete(context.Background(), m.BlobKey())
		}
		return domain.Material{}, err
	}
	if err != nil {
		return domain.Material{}, err
	}
	log.Info("material upload settled", "status", updated.Status)
	return updated, nil
}

// Complete marks an uploading material Ready.
func (s *Service) Complete(id domain.ID) (domain.Material, error) {
	return s.Repo.Transition(id, domain.StatusReady)
}

// Fail marks an uploading material Error.
func (s *Service) Fail(id domain.ID) (domain.Material, error) {
	return s.Repo.Transition(id, domain.StatusError)
}

// Remove deletes the record and its stored bytes. Past results and chat
// messages keep their snapshots.
func (s *Service) Remove(ctx context.Context, id domain.ID) error {
	m, err := s.Repo.Remove(id)
	if err != nil {
		return err
	}
	if m.Status == domain.StatusReady {
		if err := s.Blobs.Delete(ctx, m.BlobKey()); err != nil {
			logger.OrNop(s.Log).Warn("failed to delete material blob", "material_id", id, "error", err)
		}
	}
	return nil
}

// Get returns one material.
func (s *Service) Get(id domain.ID) (domain.Material, error) {
	return s.Repo.Get(id)
}

// List returns all materials in insertion order.
func (s *Service) List() []domain.Material {
	return s.Repo.List()
}

// ListReady returns the Ready materials in insertion order.
func (s *Service) ListReady() []domain.Material {
	return s.Repo.ListReady()
}

// Content reads a Ready material's bytes back from the blob store.
func (s *Service) Content(ctx context.Context, id domain.ID) (domain.Material, []byte, error) {
	m, err := s.Repo.Get(id)
	if err != nil {
		return domain.Material{}, nil, err
	}
	if !m.Ready() {
		return domain.Material{}, nil, errs.Invalid("material %s is %s", id, m.Status)
	}
	data, err := s.Blobs.Get(ctx, m.BlobKey())
	if err != nil {
		return domain.Material{}, nil, fmt.Errorf("read material %s: %w", id, err)
	}
	return m, data, nil
}
