// Package upload holds the upload widget: a selected file, a status line
// and a busy flag around a single outstanding upload.
package upload

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// WidgetName labels this widget in logs and metrics.
const WidgetName = "upload"

// State is a snapshot of the widget.
type State struct {
	FileName string
	FileSize int64
	HasFile  bool
	Status   string
	Busy     bool
}

// CanSubmit reports whether the submit control is enabled.
func (s State) CanSubmit() bool { return s.HasFile && !s.Busy }

// CanSelect reports whether the file picker is enabled.
func (s State) CanSelect() bool { return !s.Busy }

// Option configures the Service.
type Option func(*Service)

// WithMetrics enables submit metrics.
func WithMetrics(m *metrics.Widgets) Option {
	return func(s *Service) { s.metrics = m }
}

// WithObserver registers fn to receive every state transition.
// fn runs outside the widget lock.
func WithObserver(fn func(State)) Option {
	return func(s *Service) { s.observer = fn }
}

// Service is the upload widget. Safe for concurrent use; at most one
// upload is in flight at a time.
type Service struct {
	uploader Uploader
	metrics  *metrics.Widgets
	observer func(State)

	mu     sync.Mutex
	file   *domain.File
	status string
	busy   bool
}

// New creates an upload widget backed by uploader.
func New(uploader Uploader, opts ...Option) *Service {
	s := &Service{uploader: uploader}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SelectFile records f as the file to upload. A nil f clears the selection.
// Selection is rejected with domain.ErrBusy while an upload is in flight.
func (s *Service) SelectFile(f *domain.File) (State, error) {
	s.mu.Lock()
	if s.busy {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st, domain.ErrBusy
	}
	s.file = f
	if f != nil {
		s.status = domain.SelectedStatus(f.Name())
	} else {
		s.status = domain.StatusNoFileSelected
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(st)
	return st, nil
}

// Submit uploads the selected file.
//
// Without a selection it sets the prompt-to-select status and returns
// domain.ErrNoFileSelected. While another upload is in flight it returns
// domain.ErrBusy and leaves the state alone. Otherwise it performs exactly
// one upload and returns the backend error, if any, after setting the status.
func (s *Service) Submit(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.busy {
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.metrics.Submit(WidgetName, metrics.SubmitBusy)
		return st, domain.ErrBusy
	}
	if s.file == nil {
		s.status = domain.StatusSelectFileFirst
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.metrics.Submit(WidgetName, metrics.SubmitInvalid)
		s.notify(st)
		return st, domain.ErrNoFileSelected
	}
	f := s.file
	s.busy = true
	s.status = domain.StatusUploading
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.Submit(WidgetName, metrics.SubmitAccepted)
	s.metrics.SetBusy(WidgetName, true)
	s.notify(st)

	ctx, log := logpkg.With(ctx,
		zap.String("widget", WidgetName),
		zap.String("file", f.Name()),
		zap.Int64("size", f.Size()),
	)
	log.Debug("upload started")

	receipt, err := s.uploader.Upload(ctx, f)

	s.mu.Lock()
	s.busy = false
	var se *domain.ServerError
	switch {
	case err == nil:
		s.status = domain.UploadSucceededStatus(receipt.Message)
		s.file = nil
	case errors.As(err, &se):
		s.status = domain.UploadFailedStatus(se.Detail)
	default:
		s.status = domain.NetworkErrorStatus(err)
	}
	st = s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.SetBusy(WidgetName, false)
	if err != nil {
		log.Warn("upload failed", zap.Error(err))
	} else {
		log.Debug("upload finished", zap.String("message", receipt.Message))
	}
	s.notify(st)
	return st, err
}

func (s *Service) snapshotLocked() State {
	st := State{Status: s.status, Busy: s.busy}
	if s.file != nil {
		st.HasFile = true
		st.FileName = s.file.Name()
		st.FileSize = s.file.Size()
	}
	return st
}

func (s *Service) notify(st State) {
	if s.observer != nil {
		s.observer(st)
	}
}
