package otel

import (
	"context"
	"fmt"

	"github.com/ironhex/combat/pkg/command"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName scopes every engine instrument.
const MeterName = "github.com/ironhex/combat"

// CommandMetrics counts published commands and records attack outcomes.
// It is a game sink.
type CommandMetrics struct {
	commands metric.Int64Counter
	damage   metric.Int64Histogram
	falls    metric.Int64Counter
}

// NewCommandMetrics creates the instruments on m.
func NewCommandMetrics(m metric.Meter) (*CommandMetrics, error) {
	commands, err := m.Int64Counter("ironhex.commands",
		metric.WithDescription("Published commands by type"))
	if err != nil {
		return nil, fmt.Errorf("create commands counter: %w", err)
	}
	damage, err := m.Int64Histogram("ironhex.attack.damage",
		metric.WithDescription("Damage dealt per resolved weapon attack"),
		metric.WithUnit("{point}"))
	if err != nil {
		return nil, fmt.Errorf("create damage histogram: %w", err)
	}
	falls, err := m.Int64Counter("ironhex.falls",
		metric.WithDescription("Units that fell"))
	if err != nil {
		return nil, fmt.Errorf("create falls counter: %w", err)
	}
	return &CommandMetrics{commands: commands, damage: damage, falls: falls}, nil
}

// Receive implements game.Sink.
func (c *CommandMetrics) Receive(cmd command.Command) {
	ctx := context.Background()
	c.commands.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(cmd.Type()))))

	switch v := cmd.(type) {
	case *command.WeaponAttackResolution:
		total := 0
		if v.Data.HitLocationsData != nil {
			total = v.Data.HitLocationsData.TotalDamage
		}
		c.damage.Record(ctx, int64(total), metric.WithAttributes(
			attribute.String("weapon", v.Data.WeaponID),
			attribute.Bool("hit", v.Data.IsHit),
		))
	case *command.MechFall:
		if v.Data.Fell {
			c.falls.Add(ctx, 1, metric.WithAttributes(attribute.Bool("automatic", v.Data.IsAutomatic)))
		}
	}
}
