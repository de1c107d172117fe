// Package session holds the per-page controller of the DocuMind client: the
// API connection, the conversation and the upload staging set. A Session is
// created when a page (or CLI run) starts and closed when it goes away.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"documind/internal/api"
	"documind/internal/chat"
	"documind/internal/upload"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	DefaultHealthTimeout  = 5 * time.Second
	DefaultQueryTimeout   = 60 * time.Second
	DefaultAutoCloseDelay = 2 * time.Second

	// MaxQuestionLength is the size of the question field's counter.
	MaxQuestionLength = 1000
)

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	APIBase string
	// Origin is used when APIBase is blank, like a page falling back to
	// its own location.
	Origin string

	HTTPClient     *http.Client
	HealthTimeout  time.Duration
	QueryTimeout   time.Duration
	AutoCloseDelay time.Duration

	Logger   *log.Logger
	Notifier Notifier

	// Now and AfterFunc are replaced in tests.
	Now       func() time.Time
	AfterFunc func(d time.Duration, f func())
}

// Session is the controller behind one page. All fields below mu are
// guarded by it; network calls happen outside the lock.
type Session struct {
	ID string

	httpClient     *http.Client
	healthTimeout  time.Duration
	queryTimeout   time.Duration
	autoCloseDelay time.Duration
	origin         string
	logger         *log.Logger
	notifier       Notifier
	now            func() time.Time
	afterFunc      func(time.Duration, func())

	mu sync.Mutex

	// connection
	apiBase      string
	health       HealthStatus
	healthReason string
	sendEnabled  bool

	// conversation
	transcript     *chat.Transcript
	index          *chat.MessageIndex
	latency        *chat.LatencyWindow
	totalQuestions int
	inFlight       bool
	status         string

	// uploads
	staging        *upload.Staging
	dialogOpen     bool
	confirmEnabled bool
	uploading      bool
	uploadStatus   string
	uploadState    string
}

// New builds a Session. It performs no network calls; callers usually follow
// with CheckHealth.
func New(opts Options) (*Session, error) {
	index, err := chat.NewMessageIndex()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:             uuid.NewString(),
		httpClient:     opts.HTTPClient,
		healthTimeout:  opts.HealthTimeout,
		queryTimeout:   opts.QueryTimeout,
		autoCloseDelay: opts.AutoCloseDelay,
		origin:         opts.Origin,
		logger:         opts.Logger,
		notifier:       opts.Notifier,
		now:            opts.Now,
		afterFunc:      opts.AfterFunc,

		apiBase:    opts.APIBase,
		health:     HealthUnknown,
		transcript: chat.NewTranscript(),
		index:      index,
		latency:    chat.NewLatencyWindow(chat.DefaultLatencyWindow),
		status:     chat.NoMetric,
		staging:    upload.NewStaging(),
	}

	if s.httpClient == nil {
		s.httpClient = &http.Client{}
	}
	if s.healthTimeout <= 0 {
		s.healthTimeout = DefaultHealthTimeout
	}
	if s.queryTimeout <= 0 {
		s.queryTimeout = DefaultQueryTimeout
	}
	if s.autoCloseDelay <= 0 {
		s.autoCloseDelay = DefaultAutoCloseDelay
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(Event) {})
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.afterFunc == nil {
		s.afterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	s.logger = s.logger.With("session", s.ID[:8])
	return s, nil
}

// Close releases the transcript index.
func (s *Session) Close() error {
	return s.index.Close()
}

// ResolveAPIBase trims whitespace and one trailing slash from raw and falls
// back to origin when nothing is left.
func ResolveAPIBase(raw, origin string) string {
	base := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if base == "" {
		return strings.TrimSuffix(origin, "/")
	}
	return base
}

// ResolveAPIBase returns the URL requests are currently sent to.
func (s *Session) ResolveAPIBase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveAPIBase(s.apiBase, s.origin)
}

func (s *Session) client(base string) *api.Client {
	return api.NewClient(base, s.httpClient)
}

// Snapshot returns the current visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	items, _ := upload.RenderList(s.staging.Files())
	return Snapshot{
		APIBase:        s.apiBase,
		ResolvedBase:   ResolveAPIBase(s.apiBase, s.origin),
		Health:         s.health,
		HealthLabel:    s.health.Label(),
		HealthReason:   s.healthReason,
		SendEnabled:    s.sendEnabled,
		Busy:           s.inFlight,
		TotalQuestions: s.totalQuestions,
		Latency:        s.latency.Display(),
		Status:         s.status,
		Empty:          s.transcript.Len() == 0,
		DialogOpen:     s.dialogOpen,
		Uploads:        items,
		ConfirmEnabled: s.confirmEnabled,
		UploadStatus:   s.uploadStatus,
		UploadState:    s.uploadState,
	}
}

// publish sends the current snapshot to the notifier.
func (s *Session) publish() {
	snap := s.Snapshot()
	s.notifier.Notify(Event{Type: EventState, Snapshot: &snap})
}

func (s *Session) alert(text string) {
	s.notifier.Notify(Event{Type: EventAlert, Text: text})
}

// describeError turns a transport error into the text shown to the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return err.Error()
	}
}
