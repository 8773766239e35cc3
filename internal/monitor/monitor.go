// Package monitor keeps a status file of a running battle up to date.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/pkg/command"
)

// DefaultInterval is used when Dependencies.Interval is zero.
const DefaultInterval = time.Second

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Game       *game.Game
	Name       string
	Logger     *slog.Logger
	StatusFile string
	Interval   time.Duration
}

// UnitStatus is the condition of one unit at the last snapshot.
type UnitStatus struct {
	Name      string `json:"name"`
	Heat      int    `json:"heat"`
	Prone     bool   `json:"prone,omitempty"`
	Shutdown  bool   `json:"shutdown,omitempty"`
	Destroyed bool   `json:"destroyed,omitempty"`
}

// Status is a snapshot of the battle taken on every phase change.
type Status struct {
	Time    time.Time    `json:"time"`
	Battle  string       `json:"battle"`
	Turn    int          `json:"turn"`
	Phase   string       `json:"phase"`
	Events  int64        `json:"events"`
	Pending int          `json:"pending"`
	Over    bool         `json:"over"`
	Units   []UnitStatus `json:"units"`
}

// Service records snapshots as a game.Sink and writes the latest one to the
// status file from its own goroutine. Snapshots are only taken on the game's
// goroutine; the writer never touches the game.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}

	events atomic.Int64
	status atomic.Pointer[Status]
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status writer is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status returns the latest snapshot, nil before the first phase change.
func (s *Service) Status() *Status {
	return s.status.Load()
}

// Receive implements game.Sink.
func (s *Service) Receive(cmd command.Command) {
	n := s.events.Add(1)
	switch c := cmd.(type) {
	case *command.ChangePhase:
		s.status.Store(s.snapshot(c.Turn, c.Phase, n))
	case *command.GameOver:
		phase := ""
		if p := s.deps.Game.Phase(); p != nil {
			phase = string(p.Name())
		}
		st := s.snapshot(c.Turn, phase, n)
		st.Over = true
		s.status.Store(st)
	}
}

func (s *Service) snapshot(turn int, phase string, events int64) *Status {
	g := s.deps.Game
	st := &Status{
		Time:    time.Now().UTC(),
		Battle:  s.deps.Name,
		Turn:    turn,
		Phase:   phase,
		Events:  events,
		Pending: g.Pending(),
		Over:    g.Over,
	}
	for _, u := range g.Units.All() {
		st.Units = append(st.Units, UnitStatus{
			Name:      u.Name,
			Heat:      u.Heat,
			Prone:     u.Prone,
			Shutdown:  u.IsShutdown(),
			Destroyed: u.IsDestroyed(),
		})
	}
	return st
}

// Start creates the status file and starts the writer goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	statusFile, err := os.Create(s.deps.StatusFile)
	if err != nil {
		return fmt.Errorf("create status file: %w", err)
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(statusFile, s.stopChan, s.done)
	return nil
}

func (s *Service) run(statusFile *os.File, stop <-chan struct{}, done chan<- struct{}) {
	logger := s.deps.Logger
	defer func() {
		if err := statusFile.Close(); err != nil {
			logger.Error("Error closing status file", "error", err)
		}
		close(done)
	}()
	logger.Debug("Starting status monitor goroutine", "file", s.deps.StatusFile)

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	var written *Status
	flush := func() {
		st := s.status.Load()
		if st == nil || st == written {
			return
		}
		if err := writeStatus(statusFile, st); err != nil {
			logger.Error("Error writing status file", "error", err)
			return
		}
		written = st
	}

	for {
		select {
		case <-stop:
			flush()
			return
		case <-ticker.C:
			flush()
		}
	}
}

func writeStatus(f *os.File, st *Status) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

// Stop stops the writer after a final flush and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
