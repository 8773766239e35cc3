package consciousness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
)

func TestRoll(t *testing.T) {
	r := rules.NewClassic()

	t.Run("stays conscious", func(t *testing.T) {
		p := unit.NewPilot("P", 4, 5)
		p.Injure(2)

		data := Roll(p, 1, dice.NewScripted(dice.TwoD6(5)), r)

		require.NotNil(t, data)
		assert.True(t, data.Success)
		assert.Equal(t, 5, data.Target)
		assert.False(t, p.Unconscious)
	})

	t.Run("knocked out", func(t *testing.T) {
		p := unit.NewPilot("P", 4, 5)
		p.Injure(3)

		data := Roll(p, 4, dice.NewScripted(dice.TwoD6(6)), r)

		require.NotNil(t, data)
		assert.False(t, data.Success)
		assert.True(t, p.Unconscious)
		assert.Equal(t, 4, p.KnockedOutTurn)
	})

	t.Run("not applicable", func(t *testing.T) {
		src := dice.NewScripted()

		assert.Nil(t, Roll(unit.NewPilot("P", 4, 5), 1, src, r))

		dead := unit.NewPilot("P", 4, 5)
		dead.Kill()
		assert.Nil(t, Roll(dead, 1, src, r))

		out := unit.NewPilot("P", 4, 5)
		out.Injure(1)
		out.Unconscious = true
		assert.Nil(t, Roll(out, 1, src, r))
		assert.Equal(t, 0, src.Calls())
	})
}

func TestRecover(t *testing.T) {
	r := rules.NewClassic()
	p := unit.NewPilot("P", 4, 5)
	p.Injure(1)
	p.Unconscious = true
	p.KnockedOutTurn = 2

	assert.Nil(t, Recover(p, 2, dice.NewScripted(), r), "same turn")

	data := Recover(p, 3, dice.NewScripted(dice.TwoD6(3)), r)
	require.NotNil(t, data)
	assert.True(t, data.IsRecovery)
	assert.True(t, data.Success)
	assert.False(t, p.Unconscious)

	assert.Nil(t, Recover(p, 4, dice.NewScripted(), r), "already awake")
}
