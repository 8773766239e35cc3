// Package game holds the state of one battle and drives its phases. All
// mutation happens on the goroutine that calls HandleCommand or Pump;
// transports hand commands over with Enqueue.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/queue"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// ErrNoPhase is returned when commands arrive before Start.
var ErrNoPhase = errors.New("game has not started")

// PhaseName identifies a phase of the turn.
type PhaseName string

const (
	Start                  PhaseName = "Start"
	Deployment             PhaseName = "Deployment"
	Initiative             PhaseName = "Initiative"
	Movement               PhaseName = "Movement"
	WeaponsAttack          PhaseName = "WeaponsAttack"
	WeaponAttackResolution PhaseName = "WeaponAttackResolution"
	Heat                   PhaseName = "Heat"
	End                    PhaseName = "End"
)

// Phase is one step of the turn.
type Phase interface {
	Name() PhaseName
	// Enter runs the phase entry side effects. It may advance the game.
	Enter() error
	// HandleCommand processes player input. Commands the phase does not
	// handle are ignored without error.
	HandleCommand(cmd command.Command) error
}

// Validator is implemented by phases that need game configuration. Validate
// runs before the phase is announced.
type Validator interface {
	Validate() error
}

// PhaseManager picks the phase that follows current.
type PhaseManager interface {
	Initial(g *Game) (Phase, error)
	Next(current PhaseName, g *Game) (Phase, error)
}

// Sink receives every published command.
type Sink interface {
	Receive(cmd command.Command)
}

// Player is a participant.
type Player struct {
	ID        uuid.UUID
	Name      string
	Ready     bool
	TurnEnded bool
}

// Attack is one weapon declared against one target this turn.
type Attack struct {
	AttackerID    uuid.UUID
	WeaponID      string
	TargetID      uuid.UUID
	AimedLocation *core.Location
	IsPrimary     bool
	Resolved      bool
}

// Options configure a new game.
type Options struct {
	ID                 uuid.UUID
	Map                battlemap.Map
	Dice               dice.Source
	Rules              rules.Provider
	Logger             *slog.Logger
	Manager            PhaseManager
	AutoRollInitiative bool
}

// Game is one battle.
type Game struct {
	ID                 uuid.UUID
	Turn               int
	Players            []*Player
	Units              *unit.Registry
	Map                battlemap.Map
	Dice               dice.Source
	Rules              rules.Provider
	Logger             *slog.Logger
	AutoRollInitiative bool

	// InitiativeOrder lists players from initiative winner to loser.
	InitiativeOrder []uuid.UUID
	ActivePlayer    uuid.UUID
	Attacks         []*Attack
	// Over is set once the battle has been decided.
	Over bool

	manager PhaseManager
	phase   Phase
	inbox   *queue.Queue[command.Command]
	outbox  []command.Command
	sinks   []Sink
	seq     int
}

// New creates a game. Missing dice and rules default to a time-independent
// seeded source and the classic ruleset.
func New(opts Options) *Game {
	g := &Game{
		ID:                 opts.ID,
		Turn:               1,
		Units:              unit.NewRegistry(),
		Map:                opts.Map,
		Dice:               opts.Dice,
		Rules:              opts.Rules,
		Logger:             opts.Logger,
		AutoRollInitiative: opts.AutoRollInitiative,
		manager:            opts.Manager,
		inbox:              queue.New[command.Command](),
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Dice == nil {
		g.Dice = dice.NewSeeded(1)
	}
	if g.Rules == nil {
		g.Rules = rules.NewClassic()
	}
	if g.Logger == nil {
		g.Logger = slog.Default()
	}
	return g
}

// LogContext returns the attributes identifying the game's current state, for
// use with a context aware log handler.
func (g *Game) LogContext() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("game", g.ID.String()),
		slog.Int("turn", g.Turn),
	}
	if g.phase != nil {
		attrs = append(attrs, slog.String("phase", string(g.phase.Name())))
	}
	return attrs
}

// SetManager replaces the phase manager. It must be called before Start.
func (g *Game) SetManager(m PhaseManager) {
	g.manager = m
}

// AddPlayer registers a player. Adding a known player is a no-op.
func (g *Game) AddPlayer(id uuid.UUID, name string) *Player {
	if p := g.Player(id); p != nil {
		return p
	}
	p := &Player{ID: id, Name: name}
	g.Players = append(g.Players, p)
	return p
}

// Player looks up a player.
func (g *Game) Player(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AddUnit registers a unit owned by a player.
func (g *Game) AddUnit(owner uuid.UUID, u *unit.Unit) error {
	if g.Player(owner) == nil {
		return fmt.Errorf("unknown player %s", owner)
	}
	u.Owner = owner
	return g.Units.Add(u)
}

// Phase returns the active phase, nil before Start.
func (g *Game) Phase() Phase {
	return g.phase
}

// Start enters the manager's initial phase.
func (g *Game) Start() error {
	if g.manager == nil {
		return errors.New("game has no phase manager")
	}
	p, err := g.manager.Initial(g)
	if err != nil {
		return err
	}
	return g.enter(p)
}

// Advance moves to the phase that follows the active one.
func (g *Game) Advance() error {
	if g.phase == nil {
		return ErrNoPhase
	}
	next, err := g.manager.Next(g.phase.Name(), g)
	if err != nil {
		return fmt.Errorf("leaving %s: %w", g.phase.Name(), err)
	}
	return g.enter(next)
}

func (g *Game) enter(p Phase) error {
	if v, ok := p.(Validator); ok {
		if err := v.Validate(); err != nil {
			g.Logger.Error("cannot enter phase", "phase", p.Name(), "error", err)
			return err
		}
	}
	g.phase = p
	g.Logger.Info("phase changed", "phase", p.Name(), "turn", g.Turn)
	g.Publish(&command.ChangePhase{Phase: string(p.Name()), Turn: g.Turn})
	return p.Enter()
}

// HandleCommand hands a command to the active phase. Commands this game
// published itself are dropped.
func (g *Game) HandleCommand(cmd command.Command) error {
	if cmd.Origin() == g.ID {
		return nil
	}
	if g.phase == nil {
		return ErrNoPhase
	}
	return g.phase.HandleCommand(cmd)
}

// Enqueue queues a command for Pump. Safe from any goroutine.
func (g *Game) Enqueue(cmds ...command.Command) {
	g.inbox.Push(cmds...)
}

// Pump handles every queued command in arrival order and stops at the first
// error.
func (g *Game) Pump() error {
	for {
		ok, err := g.Step()
		if err != nil || !ok {
			return err
		}
	}
}

// Step handles the oldest queued command. It reports false when the queue
// was empty.
func (g *Game) Step() (bool, error) {
	cmd, ok := g.inbox.Pop()
	if !ok {
		return false, nil
	}
	return true, g.HandleCommand(cmd)
}

// Pending returns the number of queued commands Pump has not handled yet.
func (g *Game) Pending() int {
	return g.inbox.Len()
}

// Subscribe adds a sink that receives every published command.
func (g *Game) Subscribe(s Sink) {
	g.sinks = append(g.sinks, s)
}

// Publish stamps a command with the game id and the next sequence number and
// delivers it to the outbox and every sink.
func (g *Game) Publish(cmd command.Command) {
	g.seq++
	cmd.Stamp(g.ID, g.seq)
	g.outbox = append(g.outbox, cmd)
	for _, s := range g.sinks {
		s.Receive(cmd)
	}
}

// Outbox returns every command published so far.
func (g *Game) Outbox() []command.Command {
	return g.outbox
}

// DrainOutbox returns the published commands and clears the outbox.
func (g *Game) DrainOutbox() []command.Command {
	out := g.outbox
	g.outbox = nil
	return out
}

// Unit looks up a unit.
func (g *Game) Unit(id uuid.UUID) (*unit.Unit, bool) {
	return g.Units.Get(id)
}

// PlayerUnits returns the units of a player that are still in the fight.
func (g *Game) PlayerUnits(player uuid.UUID) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range g.Units.ByOwner(player) {
		if !u.IsDestroyed() {
			out = append(out, u)
		}
	}
	return out
}

// SetActivePlayer records and announces the player the phase waits for.
func (g *Game) SetActivePlayer(id uuid.UUID, unitsToAct int) {
	g.ActivePlayer = id
	g.Publish(&command.ChangeActivePlayer{PlayerID: id, UnitsToAct: unitsToAct})
}

// ReverseInitiative lists players from initiative loser to winner.
func (g *Game) ReverseInitiative() []uuid.UUID {
	out := make([]uuid.UUID, len(g.InitiativeOrder))
	for i, id := range g.InitiativeOrder {
		out[len(out)-1-i] = id
	}
	return out
}

// Survivors returns the players that still have units in the fight.
func (g *Game) Survivors() []uuid.UUID {
	var out []uuid.UUID
	for _, p := range g.Players {
		if len(g.PlayerUnits(p.ID)) > 0 {
			out = append(out, p.ID)
		}
	}
	return out
}

// ResetPlayers clears per-phase player flags.
func (g *Game) ResetPlayers() {
	for _, p := range g.Players {
		p.TurnEnded = false
	}
}
