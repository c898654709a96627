// Package supervisor launches game clients as detached processes and reports
// their lifecycle. A launched client outlives relictum: cancelling a context
// or closing the supervisor never kills it.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
)

// EventType identifies a lifecycle event.
type EventType string

const (
	EventLaunched EventType = "launched"
	EventClosed   EventType = "closed"
	EventError    EventType = "error"
)

// Event is delivered on Session.Events. A session emits EventLaunched and
// then exactly one of EventClosed or EventError.
type Event struct {
	Type      EventType
	SessionID string
	PID       int
	ExitCode  int
	Message   string
	Time      time.Time
}

// Exit is the terminal result of a session.
type Exit struct {
	Code int
	Err  error
}

// Session is one launched client.
type Session struct {
	ID        string
	Path      string
	PID       int
	StartedAt time.Time

	events chan Event
	done   chan struct{}
	exit   Exit
}

// Events returns the lifecycle channel. It is closed after the terminal event.
func (s *Session) Events() <-chan Event { return s.events }

// Done is closed once the process has ended.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the process ends.
func (s *Session) Wait() Exit {
	<-s.done
	return s.exit
}

// Supervisor tracks the sessions it launched.
type Supervisor struct {
	// OnEvent, when set, observes every event of every session.
	OnEvent func(Event)

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// New creates an empty Supervisor.
func New() *Supervisor {
	return &Supervisor{sessions: make(map[string]*Session)}
}

// Launch starts executablePath with no arguments, no stdio and its own
// directory as working directory, detached from relictum. ctx is only
// consulted before the process is spawned.
func (s *Supervisor) Launch(ctx context.Context, executablePath string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if executablePath == "" || !fsutil.IsFile(executablePath) {
		return nil, fmt.Errorf("%s: %w", executablePath, errors.ErrExecutableNotFound)
	}
	absPath, err := filepath.Abs(executablePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", executablePath, errors.ErrInvalidPath)
	}

	cmd := exec.Command(absPath)
	cmd.Dir = filepath.Dir(absPath)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", absPath, errors.ErrProcessSpawn, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	session := &Session{
		ID:        id.String(),
		Path:      absPath,
		PID:       cmd.Process.Pid,
		StartedAt: time.Now(),
		// launched + terminal event never block the waiter.
		events: make(chan Event, 2),
		done:   make(chan struct{}),
	}
	s.track(session)

	logger.Info("Game launched", logger.Fields{"path": absPath, "pid": session.PID, "session": session.ID})
	s.emit(session, Event{Type: EventLaunched})

	go s.wait(cmd, session)
	return session, nil
}

func (s *Supervisor) wait(cmd *exec.Cmd, session *Session) {
	err := cmd.Wait()

	var event Event
	switch {
	case err == nil:
		session.exit = Exit{Code: 0}
		event = Event{Type: EventClosed}
	case isExitError(err):
		code := cmd.ProcessState.ExitCode()
		session.exit = Exit{Code: code}
		event = Event{Type: EventClosed, ExitCode: code}
	default:
		session.exit = Exit{Code: -1, Err: err}
		event = Event{Type: EventError, ExitCode: -1, Message: err.Error()}
	}
	if event.Type == EventClosed {
		logger.Info("Game closed", logger.Fields{"pid": session.PID, "exit_code": event.ExitCode})
	} else {
		logger.Error("Game process error", logger.Fields{"pid": session.PID, "error": event.Message})
	}

	s.untrack(session.ID)
	s.emit(session, event)
	close(session.events)
	close(session.done)
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func (s *Supervisor) emit(session *Session, event Event) {
	event.SessionID = session.ID
	event.PID = session.PID
	event.Time = time.Now()
	session.events <- event
	if s.OnEvent != nil {
		s.OnEvent(event)
	}
}

func (s *Supervisor) track(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sessions[session.ID] = session
}

func (s *Supervisor) untrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Active returns the running sessions ordered by start time.
func (s *Supervisor) Active() []*Session {
	s.mu.Lock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Close stops tracking sessions. Running clients keep running and their
// events are still delivered.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.sessions = make(map[string]*Session)
	return nil
}

// Running reports whether the process with pid is still alive.
func Running(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return alive(p)
}
