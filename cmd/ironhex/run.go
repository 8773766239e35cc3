package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/monitor"
	intOtel "github.com/ironhex/combat/internal/otel"
	"github.com/ironhex/combat/internal/phase"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/scenario"
	"github.com/ironhex/combat/internal/storage"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// StatusFileName is the monitor's status file inside the logs directory.
const StatusFileName = "status.json"

// outcome is what a finished run reports.
type outcome struct {
	Game     *game.Game
	Winner   string
	Export   string
	Failed   int
	TurnsCap bool
}

func runBattle(args []string) error {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.StringP("config", "c", ".", "directory holding "+config.FileName)
	storageType := fs.StringP("storage", "s", "", "storage backend, overrides storage.type")
	maxTurns := fs.Int("max-turns", 0, "turn limit, overrides game.maxTurns")
	seed := fs.Uint64("seed", 0, "dice seed, overrides the scenario and game.seed")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ironhex run [flags] <scenario.yaml>")
		fs.PrintDefaults()
		return errUsage
	}

	s, err := openSession(*configDir)
	if err != nil {
		return err
	}
	defer s.Close()

	sc, err := scenario.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	storageCfg := config.GetStorageConfig()
	if *storageType != "" {
		storageCfg.Type = *storageType
	}
	gameCfg := config.GetGameConfig()
	if *maxTurns > 0 {
		gameCfg.MaxTurns = *maxTurns
	}
	switch {
	case *seed != 0:
		gameCfg.Seed = *seed
	case sc.Seed != 0:
		gameCfg.Seed = sc.Seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := play(ctx, s, sc, gameCfg, storageCfg)
	if err != nil {
		return err
	}
	report(out)
	return nil
}

// play runs one battle with the configured storage backend attached.
func play(ctx context.Context, s *session, sc *scenario.Scenario, gameCfg config.GameConfig, storageCfg config.StorageConfig) (*outcome, error) {
	rc, err := config.GetRulesConfig()
	if err != nil {
		return nil, err
	}
	rs := rules.NewClassic()
	rc.Apply(rs)

	g := game.New(game.Options{
		ID:                 uuid.New(),
		Map:                sc.Map,
		Dice:               dice.NewSeeded(gameCfg.Seed),
		Rules:              rs,
		Logger:             Logger,
		Manager:            phase.NewManager(game.Start),
		AutoRollInitiative: gameCfg.AutoRollInitiative,
	})
	s.game = g
	if err := sc.Apply(g); err != nil {
		return nil, err
	}

	backend, err := storage.NewBackend(storageCfg, storage.Dependencies{
		Log:        Logger,
		ManagerLog: ManagerLogger,
	})
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("init %s storage: %w", storageCfg.Type, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage", "error", err)
		}
	}()

	battle := &core.Battle{
		ID:        g.ID,
		Name:      sc.Name,
		Seed:      int64(gameCfg.Seed),
		StartTime: SessionStartTime,
	}
	for _, p := range sc.Players {
		battle.Players = append(battle.Players, core.PlayerInfo{ID: p.ID, Name: p.Name})
	}
	if err := backend.StartBattle(battle); err != nil {
		return nil, fmt.Errorf("start battle record: %w", err)
	}

	recorder := storage.NewRecorder(backend, Logger)
	g.Subscribe(recorder)
	metrics, err := intOtel.NewCommandMetrics(s.otel.Meter(intOtel.MeterName))
	if err != nil {
		return nil, err
	}
	g.Subscribe(metrics)
	if mc := config.GetMonitorConfig(); mc.Enabled {
		mon := monitor.NewService(monitor.Dependencies{
			Game:       g,
			Name:       sc.Name,
			Logger:     Logger,
			StatusFile: filepath.Join(s.logsDir, StatusFileName),
			Interval:   mc.Interval,
		})
		if err := mon.Start(); err != nil {
			Logger.Error("Failed to start status monitor", "error", err)
		} else {
			g.Subscribe(mon)
			defer mon.Stop()
		}
	}
	g.Subscribe(scenario.NewAutopilot(g, sc))

	Logger.Info("Battle starting", "scenario", sc.Name, "storage", storageCfg.Type, "seed", gameCfg.Seed, "maxTurns", gameCfg.MaxTurns)
	out := &outcome{Game: g}
	runErr := scenario.Run(ctx, g, gameCfg.MaxTurns)
	switch {
	case errors.Is(runErr, scenario.ErrTurnLimit):
		Logger.Warn("Battle undecided", "error", runErr)
		out.TurnsCap = true
	case runErr != nil:
		Logger.Error("Battle aborted", "error", runErr)
	}

	if err := backend.EndBattle(); err != nil {
		Logger.Error("Failed to finish battle record", "error", err)
	}
	if e, ok := backend.(storage.Exportable); ok {
		out.Export = e.ExportedFilePath()
	}
	out.Failed = recorder.Failed()
	out.Winner = winnerName(g)
	g.Logger.Info("Battle finished", "turns", g.Turn, "winner", out.Winner, "failedRecords", out.Failed)

	if runErr != nil && !out.TurnsCap {
		return out, runErr
	}
	return out, nil
}

func winnerName(g *game.Game) string {
	for _, cmd := range g.Outbox() {
		over, ok := cmd.(*command.GameOver)
		if !ok {
			continue
		}
		if p := g.Player(over.WinnerID); p != nil {
			return p.Name
		}
		return "draw"
	}
	return ""
}

func report(out *outcome) {
	g := out.Game
	switch {
	case out.Winner != "":
		fmt.Fprintf(stdout, "battle over on turn %d, winner: %s\n", g.Turn, out.Winner)
	case out.TurnsCap:
		fmt.Fprintf(stdout, "battle undecided after %d turns\n", g.Turn-1)
	}
	for _, u := range g.Units.All() {
		state := "operational"
		if u.IsDestroyed() {
			state = "destroyed: " + u.DestructionCause()
		}
		fmt.Fprintf(stdout, "  %-12s %s\n", u.Name, state)
	}
	if out.Export != "" {
		fmt.Fprintln(stdout, "battle log:", out.Export)
	}
	if out.Failed > 0 {
		fmt.Fprintf(stdout, "warning: %d events could not be recorded\n", out.Failed)
	}
}
