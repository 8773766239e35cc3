package memory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

func testBattle() *core.Battle {
	return &core.Battle{
		ID:        uuid.New(),
		Name:      "Trial: Tharkad",
		Seed:      7,
		StartTime: time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC),
		Players: []core.PlayerInfo{
			{ID: uuid.New(), Name: "Alpha"},
			{ID: uuid.New(), Name: "Bravo"},
		},
	}
}

func event(t *testing.T, turn int, cmd command.Command, seq int) *core.BattleEvent {
	t.Helper()
	cmd.Stamp(uuid.Nil, seq)
	payload, err := json.Marshal(cmd)
	require.NoError(t, err)
	return &core.BattleEvent{
		Seq:     seq,
		Turn:    turn,
		Type:    string(cmd.Type()),
		Time:    time.Now(),
		Payload: payload,
		Data:    cmd,
	}
}

func TestRecord_RequiresBattle(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	err := b.Record(event(t, 1, &command.TurnIncremented{Turn: 1}, 1))
	assert.ErrorIs(t, err, ErrNoBattle)
	assert.ErrorIs(t, b.EndBattle(), ErrNoBattle)
}

func TestRecord_KeepsOrder(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())
	require.NoError(t, b.StartBattle(testBattle()))

	require.NoError(t, b.Record(event(t, 1, &command.ChangePhase{Phase: "Initiative", Turn: 1}, 1)))
	require.NoError(t, b.Record(event(t, 1, &command.TurnIncremented{Turn: 2}, 2)))

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "ChangePhase", events[0].Type)
	assert.Equal(t, 2, events[1].Seq)

	events[0].Type = "mutated"
	assert.Equal(t, "ChangePhase", b.Events()[0].Type, "Events returns a copy")
	require.NoError(t, b.Close())
}

func TestStartBattle_Resets(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartBattle(testBattle()))
	require.NoError(t, b.Record(event(t, 1, &command.TurnIncremented{Turn: 2}, 1)))

	require.NoError(t, b.StartBattle(testBattle()))
	assert.Empty(t, b.Events())
}
