package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/internal/database"
	"github.com/ironhex/combat/internal/model"
	"github.com/ironhex/combat/internal/storage/memory"
)

// openDatabase connects to Postgres, or to the SQLite file given with
// --sqlite when Postgres is unreachable.
func openDatabase(sqlitePath string) (*database.Manager, error) {
	m := database.NewManager(ManagerLogger)
	m.SqliteFilePath = sqlitePath
	if err := m.Connect(); err != nil {
		return nil, err
	}
	if err := m.Setup(); err != nil {
		return nil, err
	}
	return m, nil
}

func queryFlags(name string) (*pflag.FlagSet, *string, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.StringP("config", "c", ".", "directory holding "+config.FileName)
	sqlitePath := fs.String("sqlite", "", "SQLite battle log used when Postgres is unreachable")
	return fs, configDir, sqlitePath
}

func listBattles(args []string) error {
	fs, configDir, sqlitePath := queryFlags("battles")
	limit := fs.IntP("limit", "n", 20, "number of battles to list, 0 for all")
	dumps := fs.String("dumps", "", "list the battles of every SQLite dump in this directory instead")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	s, err := openSession(*configDir)
	if err != nil {
		return err
	}
	defer s.Close()

	if *dumps != "" {
		return listDumps(*dumps, *limit)
	}

	m, err := openDatabase(*sqlitePath)
	if err != nil {
		return err
	}
	defer m.Close()
	battles, err := m.Battles(*limit)
	if err != nil {
		return err
	}
	return printBattles(battles)
}

// listDumps prints the battles of each .db file in dir. A file that cannot
// be read is reported and skipped.
func listDumps(dir string, limit int) error {
	paths, err := database.GetBackupDBPaths(dir)
	if err != nil {
		return fmt.Errorf("read dumps: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(stdout, "== %s\n", path)
		m, err := database.OpenSQLite(path, ManagerLogger)
		if err != nil {
			Logger.Warn("Skipping unreadable dump", "path", path, "error", err)
			continue
		}
		battles, err := m.Battles(limit)
		_ = m.Close()
		if err != nil {
			Logger.Warn("Skipping unreadable dump", "path", path, "error", err)
			continue
		}
		if err := printBattles(battles); err != nil {
			return err
		}
	}
	return nil
}

func printBattles(battles []model.Battle) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tBATTLE\tNAME\tSTARTED\tTURNS\tPLAYERS")
	for _, b := range battles {
		names := make([]string, 0, len(b.Players))
		for _, p := range b.Players {
			names = append(names, p.Name)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			b.ID, b.BattleID, b.Name, b.StartTime.Format("2006-01-02 15:04"), b.Turns, strings.Join(names, ", "))
	}
	return tw.Flush()
}

func listEvents(args []string) error {
	fs, configDir, sqlitePath := queryFlags("events")
	typ := fs.StringP("type", "t", "", "only print events of this command type")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ironhex events [flags] <battle row>")
		return errUsage
	}
	row, err := strconv.ParseUint(fs.Arg(0), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid battle row %q: %w", fs.Arg(0), err)
	}

	s, err := openSession(*configDir)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := openDatabase(*sqlitePath)
	if err != nil {
		return err
	}
	defer m.Close()
	events, err := m.BattleEvents(uint(row))
	if err != nil {
		return err
	}
	for _, e := range events {
		if *typ != "" && !strings.EqualFold(e.Type, *typ) {
			continue
		}
		fmt.Fprintf(stdout, "%5d  turn %-3d %-24s %s\n", e.Seq, e.Turn, e.Type, string(e.Payload))
	}
	return nil
}

func showExport(args []string) error {
	fs := pflag.NewFlagSet("show", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	timeline := fs.Bool("timeline", false, "print every event")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ironhex show [--timeline] <export.json[.gz]>")
		return errUsage
	}

	exp, err := memory.ReadExport(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s (seed %d), %d turns\n", exp.Name, exp.Seed, exp.Turns)
	players := map[string]string{}
	for _, p := range exp.Players {
		players[p.ID] = p.Name
	}
	if exp.WinnerID != "" {
		fmt.Fprintln(stdout, "winner:", players[exp.WinnerID])
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT\tATTACKS\tHITS\tDEALT\tTAKEN\tFALLS\tSTATUS")
	for _, u := range exp.Units {
		status := "operational"
		if u.Destroyed {
			status = "destroyed: " + u.Cause
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			u.UnitID, u.Attacks, u.Hits, u.DamageDealt, u.DamageTaken, u.Falls, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *timeline {
		for _, t := range exp.Timeline {
			fmt.Fprintf(stdout, "turn %d\n", t.Number)
			for _, e := range t.Events {
				fmt.Fprintf(stdout, "  %5d %s\n", e.Seq, e.Type)
			}
		}
	}
	return nil
}
