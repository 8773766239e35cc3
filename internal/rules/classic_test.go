package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/ironhex/combat/pkg/core"
)

func TestClassic_HitLocation(t *testing.T) {
	r := NewClassic()

	assert.Equal(t, core.CenterTorso, r.HitLocation(core.FromFront, 7))
	assert.Equal(t, core.CenterTorso, r.HitLocation(core.FromRear, 2))
	assert.Equal(t, core.Head, r.HitLocation(core.FromFront, 12))
	assert.Equal(t, core.LeftTorso, r.HitLocation(core.FromLeft, 7))
	assert.Equal(t, core.RightTorso, r.HitLocation(core.FromRight, 7))
	assert.Equal(t, core.RightLeg, r.HitLocation(core.FromLeft, 11))
	assert.Equal(t, core.LeftLeg, r.HitLocation(core.FromRight, 11))
}

func TestClassic_ClusterHits(t *testing.T) {
	r := NewClassic()

	tests := []struct {
		rack, roll, want int
	}{
		{10, 9, 8},
		{10, 2, 3},
		{10, 12, 10},
		{20, 7, 12},
		{6, 7, 4},
		{5, 11, 5},
		{2, 2, 1},
		{7, 7, 4}, // rounds down to the 6 column
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ClusterHits(tt.rack, tt.roll), "rack %d roll %d", tt.rack, tt.roll)
	}
}

func TestClassic_ClusterHitsNeverExceedRack(t *testing.T) {
	r := NewClassic()
	rapid.Check(t, func(t *rapid.T) {
		rack := rapid.IntRange(1, 40).Draw(t, "rack")
		roll := rapid.IntRange(2, 12).Draw(t, "roll")

		hits := r.ClusterHits(rack, roll)
		if hits < 1 || hits > rack {
			t.Fatalf("cluster hits %d for rack %d", hits, rack)
		}
	})
}

func TestClassic_CriticalHits(t *testing.T) {
	r := NewClassic()

	hits, off := r.CriticalHits(core.CenterTorso, 7)
	assert.Equal(t, 0, hits)
	assert.False(t, off)

	hits, _ = r.CriticalHits(core.LeftTorso, 9)
	assert.Equal(t, 1, hits)

	hits, _ = r.CriticalHits(core.LeftTorso, 11)
	assert.Equal(t, 2, hits)

	hits, off = r.CriticalHits(core.RightTorso, 12)
	assert.Equal(t, 3, hits)
	assert.False(t, off)

	hits, off = r.CriticalHits(core.LeftArm, 12)
	assert.Equal(t, 0, hits)
	assert.True(t, off)

	_, off = r.CriticalHits(core.Head, 12)
	assert.True(t, off)
}

func TestClassic_HeatScales(t *testing.T) {
	r := NewClassic()

	assert.Equal(t, 0, r.HeatToHitModifier(7))
	assert.Equal(t, 1, r.HeatToHitModifier(8))
	assert.Equal(t, 4, r.HeatToHitModifier(29))
	assert.Equal(t, 0, r.HeatMovementPenalty(4))
	assert.Equal(t, 3, r.HeatMovementPenalty(16))

	_, ok := r.ShutdownCheck(13)
	assert.False(t, ok)
	th, ok := r.ShutdownCheck(19)
	assert.True(t, ok)
	assert.Equal(t, 6, th.Target)
	th, _ = r.ShutdownCheck(30)
	assert.True(t, th.Automatic)

	th, _ = r.AmmoExplosionCheck(28)
	assert.Equal(t, 8, th.Target)
	_, ok = r.AmmoExplosionCheck(18)
	assert.False(t, ok)
}

func TestClassic_RestartCheck(t *testing.T) {
	r := NewClassic()

	th, ok := r.RestartCheck(10)
	assert.True(t, ok)
	assert.True(t, th.Automatic)

	th, ok = r.RestartCheck(22)
	assert.True(t, ok)
	assert.False(t, th.Automatic)
	assert.Equal(t, 8, th.Target)

	_, ok = r.RestartCheck(31)
	assert.False(t, ok)
}

func TestClassic_Consciousness(t *testing.T) {
	r := NewClassic()

	target, ok := r.ConsciousnessTarget(3)
	assert.True(t, ok)
	assert.Equal(t, 7, target)

	_, ok = r.ConsciousnessTarget(6)
	assert.False(t, ok)
}

func TestClassic_Movement(t *testing.T) {
	r := NewClassic()

	assert.Equal(t, 0, r.MovementHeat(core.StandingStill, 0))
	assert.Equal(t, 2, r.MovementHeat(core.Run, 6))
	assert.Equal(t, 3, r.MovementHeat(core.Jump, 2))
	assert.Equal(t, 5, r.MovementHeat(core.Jump, 5))

	assert.Equal(t, 0, r.TargetMovementModifier(2, false))
	assert.Equal(t, 2, r.TargetMovementModifier(5, false))
	assert.Equal(t, 3, r.TargetMovementModifier(5, true))
	assert.Equal(t, 6, r.TargetMovementModifier(30, false))
}

func TestClassic_Falling(t *testing.T) {
	r := NewClassic()

	assert.Equal(t, 5, r.FallingDamage(50))
	assert.Equal(t, 6, r.FallingDamage(55))
	assert.Equal(t, 1, r.LifeSupportInjuries(15))
	assert.Equal(t, 2, r.LifeSupportInjuries(26))
	assert.Equal(t, 0, r.LifeSupportInjuries(14))
}
