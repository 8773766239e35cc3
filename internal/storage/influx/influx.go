// Package influxstorage writes battle statistics to InfluxDB. It stores one
// point per weapon attack, fall, heat update and destroyed unit; the full
// event log is left to the other backends.
package influxstorage

import (
	"context"
	"strconv"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/ironhex/combat/internal/influx"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// PointWriter is the part of influx.Manager the backend uses.
type PointWriter interface {
	Connect() error
	Close() error
	WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error
}

var _ PointWriter = (*influx.Manager)(nil)

// Backend converts battle events to points.
type Backend struct {
	w      PointWriter
	battle *core.Battle
	turns  int
}

// New creates the backend.
func New(w PointWriter) *Backend {
	return &Backend{w: w}
}

// Init connects the writer.
func (b *Backend) Init() error {
	return b.w.Connect()
}

// Close releases the writer.
func (b *Backend) Close() error {
	return b.w.Close()
}

// StartBattle tags subsequent points with the battle.
func (b *Backend) StartBattle(battle *core.Battle) error {
	b.battle = battle
	b.turns = 0
	return nil
}

// EndBattle writes the battle summary point.
func (b *Backend) EndBattle() error {
	if b.battle == nil {
		return nil
	}
	p := influxdb2_write.NewPointWithMeasurement("battle").
		AddTag("battle", b.battle.ID.String()).
		AddTag("name", b.battle.Name).
		AddField("turns", b.turns).
		AddField("players", len(b.battle.Players)).
		AddField("seed", b.battle.Seed).
		SetTime(b.battle.StartTime)
	return b.w.WritePoint(context.Background(), influx.BucketBattleStats, p)
}

// Record writes the point for events that carry statistics.
func (b *Backend) Record(e *core.BattleEvent) error {
	if e.Turn > b.turns {
		b.turns = e.Turn
	}
	p := Point(e)
	if p == nil {
		return nil
	}
	if b.battle != nil {
		p.AddTag("battle", b.battle.ID.String())
	}
	return b.w.WritePoint(context.Background(), influx.BucketBattleStats, p)
}

// Point converts one event. It returns nil for events without statistics.
func Point(e *core.BattleEvent) *influxdb2_write.Point {
	var p *influxdb2_write.Point
	switch c := e.Data.(type) {
	case *command.WeaponAttackResolution:
		d := c.Data
		p = influxdb2_write.NewPointWithMeasurement("weapon_attack").
			AddTag("attacker", d.AttackerID.String()).
			AddTag("target", d.TargetID.String()).
			AddTag("weapon", d.WeaponID).
			AddTag("direction", d.AttackDirection.String()).
			AddField("to_hit", d.ToHitNumber).
			AddField("roll", core.Sum(d.AttackRoll)).
			AddField("hit", d.IsHit).
			AddField("destroyed", d.UnitDestroyed)
		damage, missiles := 0, 0
		if d.HitLocationsData != nil {
			damage, missiles = d.HitLocationsData.TotalDamage, d.HitLocationsData.MissilesHit
		}
		p.AddField("damage", damage).AddField("missiles", missiles)
	case *command.MechFall:
		p = influxdb2_write.NewPointWithMeasurement("fall").
			AddTag("unit", c.Data.UnitID.String()).
			AddTag("automatic", strconv.FormatBool(c.Data.IsAutomatic)).
			AddField("fell", c.Data.Fell).
			AddField("pilot_injured", c.Data.PilotInjured).
			AddField("reasons", len(c.Data.Reasons))
	case *command.HeatUpdated:
		p = influxdb2_write.NewPointWithMeasurement("heat").
			AddTag("unit", c.UnitID.String()).
			AddField("heat", c.Heat).
			AddField("generated", c.Data.TotalHeatPoints()).
			AddField("dissipated", c.Data.TotalHeatDissipationPoints())
	case *command.UnitDestroyed:
		p = influxdb2_write.NewPointWithMeasurement("unit_destroyed").
			AddTag("unit", c.UnitID.String()).
			AddTag("cause", c.Cause).
			AddField("count", 1)
	default:
		return nil
	}
	return p.AddField("turn", e.Turn).SetTime(e.Time)
}
