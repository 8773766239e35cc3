package rules

import (
	"github.com/ironhex/combat/pkg/core"
)

var frontRearTable = [11]core.Location{
	core.CenterTorso, // 2
	core.RightArm,
	core.RightArm,
	core.RightLeg,
	core.RightTorso,
	core.CenterTorso, // 7
	core.LeftTorso,
	core.LeftLeg,
	core.LeftArm,
	core.LeftArm,
	core.Head, // 12
}

var leftTable = [11]core.Location{
	core.LeftTorso,
	core.LeftLeg,
	core.LeftArm,
	core.LeftArm,
	core.LeftLeg,
	core.LeftTorso,
	core.CenterTorso,
	core.RightTorso,
	core.RightArm,
	core.RightLeg,
	core.Head,
}

var rightTable = [11]core.Location{
	core.RightTorso,
	core.RightLeg,
	core.RightArm,
	core.RightArm,
	core.RightLeg,
	core.RightTorso,
	core.CenterTorso,
	core.LeftTorso,
	core.LeftArm,
	core.LeftLeg,
	core.Head,
}

var clusterColumns = []int{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40}

// rows are 2d6 totals 2..12, columns follow clusterColumns
var clusterTable = [11][13]int{
	{1, 1, 1, 1, 2, 3, 3, 3, 4, 5, 6, 10, 12},
	{1, 1, 2, 2, 2, 3, 3, 3, 4, 5, 6, 10, 12},
	{1, 1, 2, 2, 3, 4, 4, 4, 5, 6, 9, 12, 18},
	{1, 2, 2, 3, 3, 4, 5, 6, 8, 9, 12, 18, 24},
	{1, 2, 2, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{1, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{2, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{2, 2, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},
	{2, 3, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40},
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40},
}

// Classic is the standard tabletop ruleset. The zero value is not usable;
// start from NewClassic and override fields as needed.
type Classic struct {
	HeavyDamage       int
	ExternalCap       int
	AimedShotMin      int
	AimedShotMax      int
	AimedShotPenalty  int
	EngineHeatPerHit  int
	FallGroupSize     int
	HeatToHit         []Threshold // Target holds the modifier
	HeatMovement      []Threshold // Target holds the MP penalty
	Shutdown          []Threshold
	AmmoExplosion     []Threshold
	ConsciousnessByHP []int // index is injuries - 1
	PsrMods           PsrModifiers
}

// NewClassic returns the standard tables.
func NewClassic() *Classic {
	return &Classic{
		HeavyDamage:      20,
		ExternalCap:      15,
		AimedShotMin:     6,
		AimedShotMax:     8,
		AimedShotPenalty: 3,
		EngineHeatPerHit: 5,
		FallGroupSize:    5,
		HeatToHit: []Threshold{
			{Heat: 8, Target: 1},
			{Heat: 13, Target: 2},
			{Heat: 17, Target: 3},
			{Heat: 24, Target: 4},
		},
		HeatMovement: []Threshold{
			{Heat: 5, Target: 1},
			{Heat: 10, Target: 2},
			{Heat: 15, Target: 3},
			{Heat: 20, Target: 4},
			{Heat: 25, Target: 5},
		},
		Shutdown: []Threshold{
			{Heat: 14, Target: 4},
			{Heat: 18, Target: 6},
			{Heat: 22, Target: 8},
			{Heat: 26, Target: 10},
			{Heat: 30, Automatic: true},
		},
		AmmoExplosion: []Threshold{
			{Heat: 19, Target: 4},
			{Heat: 23, Target: 6},
			{Heat: 28, Target: 8},
		},
		ConsciousnessByHP: []int{3, 5, 7, 10, 11},
		PsrMods: PsrModifiers{
			GyroHit:        3,
			LegDestroyed:   5,
			HipHit:         2,
			LegActuatorHit: 1,
			HeavyDamage:    1,
			Shutdown:       3,
			Jumping:        0,
			StandUp:        0,
		},
	}
}

var _ Provider = (*Classic)(nil)

func (c *Classic) HitLocation(dir core.AttackDirection, roll int) core.Location {
	roll = min(12, max(2, roll))
	switch dir {
	case core.FromLeft:
		return leftTable[roll-2]
	case core.FromRight:
		return rightTable[roll-2]
	default:
		return frontRearTable[roll-2]
	}
}

func (c *Classic) ClusterHits(rackSize, roll int) int {
	if rackSize <= 1 {
		return rackSize
	}
	roll = min(12, max(2, roll))
	col := 0
	for i, size := range clusterColumns {
		if size <= rackSize {
			col = i
		}
	}
	hits := clusterTable[roll-2][col]
	return min(hits, rackSize)
}

func (c *Classic) CriticalHits(loc core.Location, roll int) (int, bool) {
	switch {
	case roll >= 12:
		if loc.IsTorso() {
			return 3, false
		}
		return 0, true
	case roll >= 10:
		return 2, false
	case roll >= 8:
		return 1, false
	}
	return 0, false
}

func (c *Classic) AimedShotHits(roll int) bool {
	return roll >= c.AimedShotMin && roll <= c.AimedShotMax
}

func (c *Classic) AimedShotModifier() int    { return c.AimedShotPenalty }
func (c *Classic) HeavyDamageThreshold() int { return c.HeavyDamage }
func (c *Classic) ExternalHeatCap() int      { return c.ExternalCap }
func (c *Classic) EngineHitHeat() int        { return c.EngineHeatPerHit }
func (c *Classic) FallingDamageGroup() int   { return c.FallGroupSize }
func (c *Classic) Psr() PsrModifiers         { return c.PsrMods }

func (c *Classic) MovementHeat(mode core.MovementMode, mpUsed int) int {
	switch mode {
	case core.Walk:
		return 1
	case core.Run:
		return 2
	case core.Jump:
		return max(3, mpUsed)
	}
	return 0
}

// scale returns the highest threshold reached by heat.
func scale(table []Threshold, heat int) (Threshold, bool) {
	var (
		out   Threshold
		found bool
	)
	for _, t := range table {
		if heat >= t.Heat {
			out, found = t, true
		}
	}
	return out, found
}

func (c *Classic) HeatToHitModifier(heat int) int {
	t, _ := scale(c.HeatToHit, heat)
	return t.Target
}

func (c *Classic) HeatMovementPenalty(heat int) int {
	t, _ := scale(c.HeatMovement, heat)
	return t.Target
}

func (c *Classic) ShutdownCheck(heat int) (Threshold, bool) {
	return scale(c.Shutdown, heat)
}

// RestartCheck uses the shutdown table: below its first entry the unit
// restarts without a roll, at the automatic entry it cannot restart.
func (c *Classic) RestartCheck(heat int) (Threshold, bool) {
	t, ok := scale(c.Shutdown, heat)
	if !ok {
		return Threshold{Heat: heat, Automatic: true}, true
	}
	if t.Automatic {
		return Threshold{}, false
	}
	return t, true
}

func (c *Classic) AmmoExplosionCheck(heat int) (Threshold, bool) {
	return scale(c.AmmoExplosion, heat)
}

func (c *Classic) ConsciousnessTarget(injuries int) (int, bool) {
	if injuries <= 0 {
		return 0, true
	}
	if injuries > len(c.ConsciousnessByHP) {
		return 0, false
	}
	return c.ConsciousnessByHP[injuries-1], true
}

func (c *Classic) TargetMovementModifier(hexesMoved int, jumped bool) int {
	var mod int
	switch {
	case hexesMoved <= 2:
		mod = 0
	case hexesMoved <= 4:
		mod = 1
	case hexesMoved <= 6:
		mod = 2
	case hexesMoved <= 9:
		mod = 3
	case hexesMoved <= 17:
		mod = 4
	case hexesMoved <= 24:
		mod = 5
	default:
		mod = 6
	}
	if jumped {
		mod++
	}
	return mod
}

func (c *Classic) FallingDamage(tonnage int) int {
	return (tonnage + 9) / 10
}

func (c *Classic) LifeSupportInjuries(heat int) int {
	switch {
	case heat >= 26:
		return 2
	case heat >= 15:
		return 1
	}
	return 0
}
