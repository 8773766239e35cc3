package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// NewEvent wraps a published command for storage.
func NewEvent(cmd command.Command, turn int, at time.Time) (core.BattleEvent, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return core.BattleEvent{}, fmt.Errorf("marshal %s: %w", cmd.Type(), err)
	}
	return core.BattleEvent{
		Seq:     cmd.Sequence(),
		Turn:    turn,
		Type:    string(cmd.Type()),
		Time:    at,
		Payload: payload,
		Data:    cmd,
	}, nil
}

// Recorder subscribes a backend to a game. It tracks the turn from the
// published commands so every stored event carries it.
type Recorder struct {
	backend Backend
	log     *slog.Logger
	turn    int
	now     func() time.Time
	failed  int
}

// NewRecorder creates a recorder writing to backend.
func NewRecorder(backend Backend, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
}

// Receive stores one published command. Storage errors are logged and
// counted; they never interrupt the game.
func (r *Recorder) Receive(cmd command.Command) {
	switch c := cmd.(type) {
	case *command.ChangePhase:
		r.turn = c.Turn
	case *command.TurnIncremented:
		r.turn = c.Turn
	}

	e, err := NewEvent(cmd, r.turn, r.now())
	if err == nil {
		err = r.backend.Record(&e)
	}
	if err != nil {
		r.failed++
		r.log.Error("Failed to record battle event", "type", cmd.Type(), "seq", cmd.Sequence(), "error", err)
	}
}

// Failed returns how many events could not be stored.
func (r *Recorder) Failed() int {
	return r.failed
}
