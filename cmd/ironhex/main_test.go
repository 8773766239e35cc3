package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/config"
)

const duel = "../../internal/scenario/testdata/duel.yaml"

// capture redirects the command output for one test.
func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	origOut, origErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() {
		stdout, stderr = origOut, origErr
		viper.Reset()
	})
	return &out, &errOut
}

// writeConfig writes a config file that keeps every output inside a temp dir.
func writeConfig(t *testing.T, storage map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	cfg := map[string]any{
		"logLevel": "debug",
		"logsDir":  filepath.Join(dir, "logs"),
		"storage":  storage,
		"game":     map[string]any{"autoRollInitiative": true, "maxTurns": 3, "seed": 11},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), data, 0644))
	return dir
}

func TestExecute_Usage(t *testing.T) {
	out, errOut := capture(t)

	assert.Equal(t, 2, execute(nil))
	assert.Contains(t, errOut.String(), "usage:")

	assert.Equal(t, 2, execute([]string{"fly"}))
	assert.Contains(t, errOut.String(), `unknown command "fly"`)

	assert.Equal(t, 0, execute([]string{"version"}))
	assert.Equal(t, Version+"\n", out.String())

	assert.Equal(t, 2, execute([]string{"run"}), "scenario missing")
	assert.Equal(t, 2, execute([]string{"show", "--bogus"}))
}

func TestRun_MemoryExportAndShow(t *testing.T) {
	out, errOut := capture(t)
	outDir := t.TempDir()
	dir := writeConfig(t, map[string]any{
		"type":   "memory",
		"memory": map[string]any{"outputDir": outDir, "compressOutput": false},
	})

	code := execute([]string{"run", "--config", dir, duel})
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "Enforcer")
	assert.Contains(t, out.String(), "Trebuchet")

	var export string
	for _, line := range strings.Split(out.String(), "\n") {
		if p, ok := strings.CutPrefix(line, "battle log: "); ok {
			export = p
		}
	}
	require.NotEmpty(t, export)
	assert.Equal(t, outDir, filepath.Dir(export))

	logs, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.NotEmpty(t, logs, "a session log file is written")
	status, err := os.ReadFile(filepath.Join(dir, "logs", StatusFileName))
	require.NoError(t, err)
	assert.Contains(t, string(status), `"battle": "Duel at Hesperus"`)

	out.Reset()
	require.Equal(t, 0, execute([]string{"show", "--timeline", export}), errOut.String())
	assert.Contains(t, out.String(), "Duel at Hesperus (seed 7)")
	assert.Contains(t, out.String(), "turn 1")
	assert.Contains(t, out.String(), "ChangePhase")
}

func TestRun_SeedFlagAndDiscard(t *testing.T) {
	out, errOut := capture(t)
	dir := writeConfig(t, map[string]any{"type": "memory"})

	code := execute([]string{"run", "-c", dir, "--storage", "none", "--seed", "99", "--max-turns", "1", duel})
	require.Equal(t, 0, code, errOut.String())
	assert.NotContains(t, out.String(), "battle log:")
}

func TestRun_UnknownStorage(t *testing.T) {
	_, errOut := capture(t)
	dir := writeConfig(t, map[string]any{"type": "carrier-pigeon"})

	assert.Equal(t, 1, execute([]string{"run", "-c", dir, duel}))
	assert.Contains(t, errOut.String(), "unknown storage type")
}

func TestRun_BadScenario(t *testing.T) {
	_, errOut := capture(t)
	dir := writeConfig(t, map[string]any{"type": "none"})

	assert.Equal(t, 1, execute([]string{"run", "-c", dir, filepath.Join(dir, "missing.yaml")}))
	assert.Contains(t, errOut.String(), "read scenario")
}

func TestRun_MalformedRulesConfig(t *testing.T) {
	out, errOut := capture(t)
	dir := writeConfig(t, map[string]any{"type": "none"})
	path := filepath.Join(dir, config.FileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(data, &cfg))
	cfg["rules"] = map[string]any{"heavyDamageThreshold": "lots"}
	data, err = json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	assert.Equal(t, 1, execute([]string{"run", "-c", dir, duel}))
	assert.Contains(t, errOut.String(), "decode rules config")
	assert.NotContains(t, out.String(), "Enforcer")
}

func TestEvents_InvalidRow(t *testing.T) {
	_, errOut := capture(t)
	assert.Equal(t, 1, execute([]string{"events", "abc"}))
	assert.Contains(t, errOut.String(), "invalid battle row")
}

func TestBattles_ListsSQLiteDumps(t *testing.T) {
	out, errOut := capture(t)
	dumps := t.TempDir()
	dir := writeConfig(t, map[string]any{
		"type":   "sqlite",
		"sqlite": map[string]any{"path": filepath.Join(dumps, "duel.db"), "dumpInterval": "1h"},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dumps, "broken.db"), []byte("not sqlite"), 0644))

	require.Equal(t, 0, execute([]string{"run", "-c", dir, duel}), errOut.String())

	out.Reset()
	require.Equal(t, 0, execute([]string{"battles", "-c", dir, "--dumps", dumps}), errOut.String())
	assert.Contains(t, out.String(), "== "+filepath.Join(dumps, "duel.db"))
	assert.Contains(t, out.String(), "Duel at Hesperus")
	assert.Contains(t, out.String(), "Steiner, Kurita")

	assert.Equal(t, 1, execute([]string{"battles", "-c", dir, "--dumps", filepath.Join(dumps, "missing")}))
	assert.Contains(t, errOut.String(), "read dumps")
}
