// Package session owns the per-process conversation session: its ID and the
// directory where the component logs are written.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const sessionMetaFile = "session.toml"

type sessionMeta struct {
	SessionID  string    `toml:"session_id"`
	Timestamp  time.Time `toml:"timestamp"`
	OutputRoot string    `toml:"output_root"`
	Backend    string    `toml:"backend"`
}

type logHandler struct {
	f *os.File
	h slog.Handler
}

func newLogHandler(p string, opts *slog.HandlerOptions) (*logHandler, error) {
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &logHandler{
		f: f,
		h: slog.NewJSONHandler(f, opts),
	}, nil
}

func (h *logHandler) Close() error {
	return h.f.Close()
}

type Session struct {
	meta        sessionMeta
	sessionPath string
	level       slog.Level

	mu       sync.Mutex
	handlers map[string]*logHandler
}

// New creates a session rooted in the user cache directory, or in a
// temporary directory when no cache directory is available.
func New(level slog.Level) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	s := &Session{
		meta: sessionMeta{
			SessionID: id.String(),
			Timestamp: time.Now(),
		},
		level:    level,
		handlers: map[string]*logHandler{},
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Printf("Failed to obtain the user cache dir: %v", err)
		log.Printf("Falls back to the temporary directory...")
		tempDir, err := os.MkdirTemp("", "recipes")
		if err != nil {
			return nil, err
		}
		s.sessionPath = tempDir
		return s, nil
	}
	s.sessionPath = filepath.Join(cacheDir, "recipes", "sessions", s.meta.SessionID)
	return s, nil
}

// NewInDir creates a session whose files live under dir.
func NewInDir(dir string, level slog.Level) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Session{
		meta: sessionMeta{
			SessionID: id.String(),
			Timestamp: time.Now(),
		},
		sessionPath: dir,
		level:       level,
		handlers:    map[string]*logHandler{},
	}, nil
}

func (s *Session) ID() string {
	return s.meta.SessionID
}

func (s *Session) Timestamp() time.Time {
	return s.meta.Timestamp
}

// Init records the session metadata next to the logs.
func (s *Session) Init(outputRoot, backend string) error {
	s.meta.OutputRoot = outputRoot
	s.meta.Backend = backend
	if err := os.MkdirAll(s.sessionPath, 0755); err != nil {
		return err
	}
	encodedMeta, err := toml.Marshal(s.meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.sessionPath, sessionMetaFile), encodedMeta, 0644)
}

func (s *Session) LogPath() string {
	return filepath.Join(s.sessionPath, "logs")
}

func (s *Session) NewLogHandler(name string) (slog.Handler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handlers[name]
	if ok {
		return h.h, nil
	}
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("malformed log name %s", name)
	}
	var pathName string = name
	if !strings.Contains(name, ".") {
		pathName = name + ".jsonl"
	}
	if err := os.MkdirAll(s.LogPath(), 0755); err != nil {
		return nil, err
	}
	h, err := newLogHandler(filepath.Join(s.LogPath(), pathName), &slog.HandlerOptions{
		AddSource: true,
		Level:     s.level,
	})
	if err != nil {
		return nil, err
	}
	s.handlers[name] = h
	return h.h, nil
}

func (s *Session) GetLogger(name string) (*slog.Logger, error) {
	h, err := s.NewLogHandler(name)
	if err != nil {
		return nil, err
	}
	return slog.New(h).With("session", s.meta.SessionID), nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var allerr error
	for name, h := range s.handlers {
		err := h.Close()
		if err != nil {
			allerr = errors.Join(allerr, fmt.Errorf("failed to close %s: %w", name, err))
		}
	}
	s.handlers = map[string]*logHandler{}
	return allerr
}

type sessionKey struct{}

func (s *Session) With(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}

// LoggerFromContext returns the named logger of the session in ctx. Without
// a session, the returned logger discards everything.
func LoggerFromContext(ctx context.Context, name string) (*slog.Logger, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return slog.New(slog.DiscardHandler), nil
	}
	return s.GetLogger(name)
}
