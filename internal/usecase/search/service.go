// Package search holds the search widget: a query, the last answer or
// error and a busy flag around a single outstanding search.
package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// WidgetName labels this widget in logs and metrics.
const WidgetName = "search"

// State is a snapshot of the widget. Result and Error are never both set.
type State struct {
	Query         string
	Result        string
	Error         string
	RetrievedDocs []string
	Busy          bool
	// Cause is the typed error behind Error, nil otherwise.
	Cause error
}

// CanSubmit reports whether the submit control is enabled.
func (s State) CanSubmit() bool {
	return strings.TrimSpace(s.Query) != "" && !s.Busy
}

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

// Service is the search widget. Safe for concurrent use; at most one
// search is in flight at a time. Results are never cached: every accepted
// submit calls the backend.
type Service struct {
	searcher Searcher
	metrics  *metrics.Widgets
	observer func(State)

	mu    sync.Mutex
	state State
}

// New creates a search widget backed by searcher.
func New(searcher Searcher, opts ...Option) *Service {
	s := &Service{searcher: searcher}
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

// SetQuery replaces the query text verbatim, even while a search is in flight.
func (s *Service) SetQuery(text string) State {
	s.mu.Lock()
	s.state.Query = text
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(st)
	return st
}

// Submit searches for the current query.
//
// A blank query returns domain.ErrEmptyQuery and a search already in flight
// returns domain.ErrBusy; neither touches the state. Otherwise the previous
// result and error are cleared, one search is performed and its outcome
// stored. On failure Error holds the fixed user message and the returned
// error (also kept in Cause) tells server, transport and shape faults apart.
func (s *Service) Submit(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state.Busy {
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.metrics.Submit(WidgetName, metrics.SubmitBusy)
		return st, domain.ErrBusy
	}
	query := s.state.Query
	if strings.TrimSpace(query) == "" {
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.metrics.Submit(WidgetName, metrics.SubmitInvalid)
		return st, domain.ErrEmptyQuery
	}
	s.state.Result = ""
	s.state.Error = ""
	s.state.Cause = nil
	s.state.RetrievedDocs = nil
	s.state.Busy = true
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.Submit(WidgetName, metrics.SubmitAccepted)
	s.metrics.SetBusy(WidgetName, true)
	s.notify(st)

	ctx, log := logpkg.With(ctx, zap.String("widget", WidgetName))
	log.Debug("search started", zap.Int("query_len", len(query)))

	answer, err := s.searcher.Search(ctx, query)

	s.mu.Lock()
	s.state.Busy = false
	if err != nil {
		s.state.Error = domain.SearchFailedMessage
		s.state.Cause = err
	} else {
		s.state.Result = answer.Content
		s.state.RetrievedDocs = answer.RetrievedDocs
	}
	st = s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.SetBusy(WidgetName, false)
	if err != nil {
		log.Warn("search failed", zap.Error(err))
	} else {
		log.Debug("search finished",
			zap.Int("answer_len", len(answer.Content)),
			zap.Int("retrieved_docs", len(answer.RetrievedDocs)),
		)
	}
	s.notify(st)
	return st, err
}

func (s *Service) snapshotLocked() State {
	st := s.state
	if st.RetrievedDocs != nil {
		st.RetrievedDocs = append([]string(nil), st.RetrievedDocs...)
	}
	return st
}

func (s *Service) notify(st State) {
	if s.observer != nil {
		s.observer(st)
	}
}
