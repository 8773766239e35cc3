// Command ironhex runs scenario battles through the combat engine and
// inspects the recorded battle logs.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AppName prefixes log files and scopes telemetry.
const AppName = "ironhex"

var (
	// Version is set at build time.
	Version = "dev"

	SessionStartTime = time.Now()

	// Logger is the slog logger of the current session.
	Logger = slog.Default()
	// ManagerLogger is handed to the database and influx managers.
	ManagerLogger = zerolog.Nop()

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var commands = map[string]func(args []string) error{
	"run":     runBattle,
	"battles": listBattles,
	"events":  listEvents,
	"show":    showExport,
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: %s <command> [flags] [args]

commands:
  run <scenario.yaml>    play a scenario and record the battle
  battles                list battles recorded in the database or in SQLite dumps
  events <battle row>    print the event log of a recorded battle
  show <export.json>     summarize a JSON battle export
  version                print the version
`, AppName)
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	name := strings.ToLower(args[0])
	if name == "version" {
		fmt.Fprintln(stdout, Version)
		return 0
	}
	if name == "help" || name == "-h" || name == "--help" {
		usage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
	if err := cmd(args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")
