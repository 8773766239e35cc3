// Package dice supplies six-sided dice to the rules engine.
package dice

//go:generate go tool mockgen -destination=./mocks/source_mock.go -package=mocks . Source

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrScriptExhausted indicates a scripted source ran out of rolls.
var ErrScriptExhausted = errors.New("scripted dice exhausted")

// ErrScriptMismatch indicates a scripted roll has a different die count than requested.
var ErrScriptMismatch = errors.New("scripted roll die count mismatch")

// Source returns n six-sided die results per call. The number and order of
// calls is observable: every roll the engine makes is exactly one call.
type Source interface {
	RollNDice(n int) []int
}

// Roll2D6 rolls two dice in a single call.
func Roll2D6(src Source) []int {
	return src.RollNDice(2)
}

// Roll1D6 rolls one die.
func Roll1D6(src Source) []int {
	return src.RollNDice(1)
}

// Seeded is a deterministic source: two sources with the same seed produce the
// same sequence.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a Seeded source.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) RollNDice(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = s.rng.IntN(6) + 1
	}
	return out
}

// Scripted replays predetermined rolls, one entry per call. It panics when
// the script is exhausted or a roll has the wrong die count, since either
// means the caller made a roll it was not expected to make.
type Scripted struct {
	mu    sync.Mutex
	rolls [][]int
	calls int
}

// NewScripted creates a Scripted source.
func NewScripted(rolls ...[]int) *Scripted {
	return &Scripted{rolls: rolls}
}

// Push appends rolls to the script.
func (s *Scripted) Push(rolls ...[]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rolls = append(s.rolls, rolls...)
}

func (s *Scripted) RollNDice(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.rolls) {
		panic(fmt.Errorf("%w: call %d for %dd6", ErrScriptExhausted, s.calls+1, n))
	}
	roll := s.rolls[s.calls]
	if len(roll) != n {
		panic(fmt.Errorf("%w: call %d wants %dd6, script has %v", ErrScriptMismatch, s.calls+1, n, roll))
	}
	s.calls++
	return append([]int(nil), roll...)
}

// Calls returns how many rolls were made.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Remaining returns how many scripted rolls were not consumed.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rolls) - s.calls
}

// TwoD6 returns a two die roll with the given total.
func TwoD6(total int) []int {
	if total < 2 || total > 12 {
		panic(fmt.Sprintf("2d6 total out of range: %d", total))
	}
	high := (total + 1) / 2
	if high > 6 {
		high = 6
	}
	return []int{high, total - high}
}

// OneD6 returns a single die roll.
func OneD6(v int) []int {
	if v < 1 || v > 6 {
		panic(fmt.Sprintf("d6 value out of range: %d", v))
	}
	return []int{v}
}

// Roll is one audited dice call.
type Roll struct {
	Dice  []int `json:"dice"`
	Total int   `json:"total"`
}

// Recording wraps a source and keeps every roll it returns.
type Recording struct {
	src   Source
	mu    sync.Mutex
	rolls []Roll
}

// NewRecording wraps src.
func NewRecording(src Source) *Recording {
	return &Recording{src: src}
}

func (r *Recording) RollNDice(n int) []int {
	roll := r.src.RollNDice(n)
	total := 0
	for _, d := range roll {
		total += d
	}
	r.mu.Lock()
	r.rolls = append(r.rolls, Roll{Dice: append([]int(nil), roll...), Total: total})
	r.mu.Unlock()
	return roll
}

// Calls returns how many rolls went through the recorder.
func (r *Recording) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rolls)
}

// Rolls returns a copy of the audit trail.
func (r *Recording) Rolls() []Roll {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Roll(nil), r.rolls...)
}
