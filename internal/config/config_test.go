package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/rules"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	defaults := map[string]any{
		"logLevel":                      "info",
		"logsDir":                       "./ironhexlogs",
		"game.autoRollInitiative":       true,
		"game.maxTurns":                 30,
		"game.seed":                     1,
		"rules.heavyDamageThreshold":    0,
		"storage.type":                  "memory",
		"storage.memory.outputDir":      "./battles",
		"storage.memory.compressOutput": true,
		"storage.sqlite.dumpInterval":   "3m",
		"storage.influx.backupPath":     "./battles/influx_backup.log.gz",
		"monitor.enabled":               true,
		"db.host":                       "localhost",
		"db.port":                       "5432",
		"db.database":                   "ironhex",
		"influx.enabled":                true,
		"influx.org":                    "ironhex",
		"graylog.enabled":               false,
		"graylog.address":               "localhost:12201",
		"otel.enabled":                  false,
		"otel.serviceName":              "ironhex",
		"otel.batchTimeout":             "5s",
		"otel.insecure":                 true,
	}
	for key, want := range defaults {
		assert.EqualValues(t, want, viper.Get(key), key)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("storage.type", "sqlite")
	viper.Set("game.maxTurns", 12)
	viper.Set("monitor.enabled", true)

	assert.Equal(t, "sqlite", GetString("storage.type"))
	assert.Equal(t, 12, GetInt("game.maxTurns"))
	assert.True(t, GetBool("monitor.enabled"))
	assert.False(t, GetBool("missing"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./battles", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
	assert.Equal(t, "", cfg.SQLite.Path)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "path": "/tmp/battles.db", "dumpInterval": "10m" },
			"influx": { "backupPath": "/tmp/influx.gz" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, "/tmp/battles.db", sc.SQLite.Path)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
	assert.Equal(t, "/tmp/influx.gz", sc.Influx.BackupPath)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "ironhex", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetGameConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"game": {"maxTurns": 12, "seed": 99, "autoRollInitiative": false}}`)))

	gc := GetGameConfig()
	assert.Equal(t, 12, gc.MaxTurns)
	assert.Equal(t, uint64(99), gc.Seed)
	assert.False(t, gc.AutoRollInitiative)
}

func TestGetMonitorConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))
	mc := GetMonitorConfig()
	assert.True(t, mc.Enabled)
	assert.Equal(t, time.Second, mc.Interval)

	viper.Reset()
	require.NoError(t, Load(writeConfig(t, `{"monitor": {"enabled": false, "interval": "250ms"}}`)))
	mc = GetMonitorConfig()
	assert.False(t, mc.Enabled)
	assert.Equal(t, 250*time.Millisecond, mc.Interval)
}

func TestGetGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"graylog": {"enabled": true, "address": "gelf:12201"}}`)))

	gc := GetGraylogConfig()
	assert.True(t, gc.Enabled)
	assert.Equal(t, "gelf:12201", gc.Address)
}

func TestRulesConfig_Apply(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"rules": {"heavyDamageThreshold": 25, "aimedShotMax": 9}}`)))

	rc, err := GetRulesConfig()
	require.NoError(t, err)
	assert.Equal(t, 25, rc.HeavyDamageThreshold)

	c := rules.NewClassic()
	rc.Apply(c)
	assert.Equal(t, 25, c.HeavyDamageThreshold())
	assert.Equal(t, 9, c.AimedShotMax)
	assert.Equal(t, 6, c.AimedShotMin, "zero overrides keep the default")
	assert.Equal(t, 15, c.ExternalHeatCap())
}

func TestGetRulesConfig_Malformed(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"rules": {"heavyDamageThreshold": "lots", "aimedShotMax": 9}}`)))

	rc, err := GetRulesConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode rules config")
	assert.Zero(t, rc)
}
