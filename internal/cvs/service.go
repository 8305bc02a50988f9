package cvs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/extract"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/shared/util"
)

// State tracks where a submission is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateInserting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateInserting:
		return "inserting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing messages, shown verbatim by the form.
const (
	msgMissingFields = "Merci de remplir tous les champs."
	msgMissingFile   = "Merci d’ajouter ton CV au format PDF."
	msgNotPDF        = "Le CV doit être au format PDF."
	msgSubmitFailed  = "Erreur lors de la publication du CV."

	// MsgSuccess is shown after a completed submission.
	MsgSuccess = "CV publié avec succès."
)

// Submission carries the form fields and the uploaded file.
type Submission struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Domain      string
	Description string

	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

// ValidationError reports a rejected submission with the message to display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SubmitError reports a failure past validation, with the state it failed in.
type SubmitError struct {
	State   State
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Service handles CV submissions: file upload plus the metadata record.
type Service struct {
	Blobs     object.BlobStore
	Repo      Repo
	Container string
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit validates, uploads the PDF, then inserts the metadata record. It
// returns the stored record on success. The upload and the insert are not
// atomic; an insert failure leaves the uploaded object behind.
func (s *Service) Submit(ctx context.Context, sub Submission) (Record, error) {
	first := strings.TrimSpace(sub.FirstName)
	last := strings.TrimSpace(sub.LastName)
	email := strings.TrimSpace(sub.Email)
	phone := strings.TrimSpace(sub.Phone)
	domain := strings.TrimSpace(sub.Domain)
	description := strings.TrimSpace(sub.Description)

	if first == "" || last == "" || email == "" || phone == "" || domain == "" || description == "" {
		return Record{}, &ValidationError{Message: msgMissingFields}
	}
	if sub.File == nil || sub.Size <= 0 {
		return Record{}, &ValidationError{Message: msgMissingFile}
	}
	if sub.ContentType != "application/pdf" {
		return Record{}, &ValidationError{Message: msgNotPDF}
	}

	now := s.now()
	key := util.SanitizeObjectKey(fmt.Sprintf("%d_%s_%s", now.UnixMilli(), first, last)) + ".pdf"

	data, err := io.ReadAll(sub.File)
	if err != nil {
		return Record{}, &SubmitError{State: StateUploading, Message: msgSubmitFailed, Err: fmt.Errorf("read upload: %w", err)}
	}

	telemetry.Info("cv.upload.start", map[string]any{"key": key, "size": len(data)})
	err = s.Blobs.Upload(ctx, s.Container, key, bytes.NewReader(data), object.UploadOptions{
		ContentType: "application/pdf",
		Overwrite:   false,
	})
	if err != nil {
		msg := msgSubmitFailed
		if s.isContainerMissing(err) {
			if diag := s.containerDiagnostics(ctx); diag != "" {
				msg += " " + diag
			}
		}
		telemetry.Error("cv.upload.failed", map[string]any{"key": key, "error": err.Error()})
		return Record{}, &SubmitError{State: StateUploading, Message: msg, Err: err}
	}

	rec := Record{
		ID:          uuid.NewString(),
		FirstName:   first,
		LastName:    last,
		Email:       email,
		Phone:       phone,
		Domain:      domain,
		Description: description,
		FilePath:    key,
		CreatedAt:   now,
	}
	if pages, err := extract.PageCount(data); err == nil {
		rec.PageCount = pages
	}

	if err := s.Repo.Insert(ctx, rec); err != nil {
		telemetry.Error("cv.insert.failed", map[string]any{"key": key, "error": err.Error()})
		return Record{}, &SubmitError{State: StateInserting, Message: msgSubmitFailed, Err: err}
	}

	telemetry.Info("cv.submit.succeeded", map[string]any{"id": rec.ID, "key": key})
	return rec, nil
}

// isContainerMissing matches both the store's sentinel and provider messages
// that only surface as text.
func (s *Service) isContainerMissing(err error) bool {
	if errors.Is(err, object.ErrContainerNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bucket") && strings.Contains(msg, "not found")
}

// containerDiagnostics lists the containers the credentials can see, to make
// a misconfigured container name obvious in the error message. A failed
// listing returns "" so the original message stands alone.
func (s *Service) containerDiagnostics(ctx context.Context) string {
	containers, err := s.Blobs.ListContainers(ctx)
	if err != nil {
		return ""
	}
	if len(containers) == 0 {
		return "Aucun bucket visible avec cette clé."
	}
	names := make([]string, len(containers))
	for i, c := range containers {
		names[i] = c.Name
	}
	return fmt.Sprintf("Buckets disponibles: %s.", strings.Join(names, ", "))
}
