package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/entnt/dentdesk/internal/model"
	"github.com/entnt/dentdesk/internal/repo"
	"github.com/entnt/dentdesk/pkg/blob"
)

var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrIndexOutOfRange  = errors.New("attachment index out of range")
)

// FileInput is one uploaded file: its name and its content.
type FileInput struct {
	Name    string
	Content io.Reader
}

type Service interface {
	// Attach stores each file's content with the blob collaborator and
	// appends {name, reference} to the incident's attachment sequence.
	Attach(ctx context.Context, incidentID string, files []FileInput) (model.Incident, error)

	// Detach removes the attachment at the given position.
	Detach(ctx context.Context, incidentID string, index int) (model.Incident, error)

	// Open returns the referenced content for viewing or download.
	Open(ctx context.Context, att model.Attachment) (io.ReadCloser, error)

	// DownloadURL returns a fetchable address for the attachment.
	DownloadURL(ctx context.Context, att model.Attachment) (string, error)
}

type attachmentService struct {
	incidents *repo.Incidents
	blobs     blob.Storage
}

func New(incidents *repo.Incidents, blobs blob.Storage) Service {
	return &attachmentService{incidents: incidents, blobs: blobs}
}

func (s *attachmentService) Attach(ctx context.Context, incidentID string, files []FileInput) (model.Incident, error) {
	added := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		ref, err := s.blobs.Put(ctx, f.Name, f.Content)
		if err != nil {
			return model.Incident{}, fmt.Errorf("store attachment %q: %w", f.Name, err)
		}
		added = append(added, model.Attachment{Name: f.Name, Ref: ref})
	}

	updated, err := s.incidents.Update(ctx, incidentID, func(i *model.Incident) {
		i.Attachments = append(i.Attachments, added...)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Incident{}, ErrIncidentNotFound
		}
		return model.Incident{}, err
	}
	return updated, nil
}

func (s *attachmentService) Detach(ctx context.Context, incidentID string, index int) (model.Incident, error) {
	incident, err := s.incidents.Get(ctx, incidentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Incident{}, ErrIncidentNotFound
		}
		return model.Incident{}, err
	}
	if index < 0 || index >= len(incident.Attachments) {
		return model.Incident{}, ErrIndexOutOfRange
	}
	removed := incident.Attachments[index]

	updated, err := s.incidents.Update(ctx, incidentID, func(i *model.Incident) {
		if index < len(i.Attachments) {
			i.Attachments = append(i.Attachments[:index], i.Attachments[index+1:]...)
		}
	})
	if err != nil {
		return model.Incident{}, err
	}

	if err := s.blobs.Delete(ctx, removed.Ref); err != nil {
		// The record no longer references the content; orphaned blobs
		// are harmless.
		slog.Warn("attachment content not removed", "ref", removed.Ref, "error", err)
	}
	return updated, nil
}

func (s *attachmentService) Open(ctx context.Context, att model.Attachment) (io.ReadCloser, error) {
	return s.blobs.Open(ctx, att.Ref)
}

func (s *attachmentService) DownloadURL(ctx context.Context, att model.Attachment) (string, error) {
	return s.blobs.URL(ctx, att.Ref)
}
