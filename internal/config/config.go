package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ironhex/combat/internal/rules"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "ironhex.cfg.json"

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings of the in-memory SQLite backend.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// InfluxStorageConfig holds settings of the InfluxDB statistics backend.
type InfluxStorageConfig struct {
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// StorageConfig selects and configures the battle-log backend.
type StorageConfig struct {
	Type   string              `json:"type" mapstructure:"type"`
	Memory MemoryConfig        `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig        `json:"sqlite" mapstructure:"sqlite"`
	Influx InfluxStorageConfig `json:"influx" mapstructure:"influx"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// GraylogConfig holds GELF output settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// MonitorConfig holds settings of the battle status file.
type MonitorConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// GameConfig holds engine options of a game instance.
type GameConfig struct {
	AutoRollInitiative bool   `json:"autoRollInitiative" mapstructure:"autoRollInitiative"`
	MaxTurns           int    `json:"maxTurns" mapstructure:"maxTurns"`
	Seed               uint64 `json:"seed" mapstructure:"seed"`
}

// RulesConfig overrides the scalar constants of the classic ruleset. Zero
// values keep the ruleset default.
type RulesConfig struct {
	HeavyDamageThreshold int `json:"heavyDamageThreshold" mapstructure:"heavyDamageThreshold"`
	ExternalHeatCap      int `json:"externalHeatCap" mapstructure:"externalHeatCap"`
	AimedShotMin         int `json:"aimedShotMin" mapstructure:"aimedShotMin"`
	AimedShotMax         int `json:"aimedShotMax" mapstructure:"aimedShotMax"`
	FallingDamageGroup   int `json:"fallingDamageGroup" mapstructure:"fallingDamageGroup"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers the default of every key. Load calls it; the CLI
// also calls it when running without a config file.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./ironhexlogs")

	viper.SetDefault("game.autoRollInitiative", true)
	viper.SetDefault("game.maxTurns", 30)
	viper.SetDefault("game.seed", 1)

	viper.SetDefault("rules.heavyDamageThreshold", 0)
	viper.SetDefault("rules.externalHeatCap", 0)
	viper.SetDefault("rules.aimedShotMin", 0)
	viper.SetDefault("rules.aimedShotMax", 0)
	viper.SetDefault("rules.fallingDamageGroup", 0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./battles")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.influx.backupPath", "./battles/influx_backup.log.gz")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "ironhex")

	viper.SetDefault("influx.enabled", true)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "ironhex")

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval", "1s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "ironhex")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Influx: InfluxStorageConfig{
			BackupPath: viper.GetString("storage.influx.backupPath"),
		},
	}
}

// GetOTelConfig returns the otel section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetGraylogConfig returns the graylog section.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetMonitorConfig returns the monitor section.
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:  viper.GetBool("monitor.enabled"),
		Interval: viper.GetDuration("monitor.interval"),
	}
}

// GetGameConfig returns the game section.
func GetGameConfig() GameConfig {
	return GameConfig{
		AutoRollInitiative: viper.GetBool("game.autoRollInitiative"),
		MaxTurns:           viper.GetInt("game.maxTurns"),
		Seed:               viper.GetUint64("game.seed"),
	}
}

// GetRulesConfig returns the rules section.
func GetRulesConfig() (RulesConfig, error) {
	var rc RulesConfig
	if err := viper.UnmarshalKey("rules", &rc); err != nil {
		return RulesConfig{}, fmt.Errorf("decode rules config: %w", err)
	}
	return rc, nil
}

// Apply copies the non-zero overrides onto a ruleset.
func (rc RulesConfig) Apply(c *rules.Classic) {
	if rc.HeavyDamageThreshold > 0 {
		c.HeavyDamage = rc.HeavyDamageThreshold
	}
	if rc.ExternalHeatCap > 0 {
		c.ExternalCap = rc.ExternalHeatCap
	}
	if rc.AimedShotMin > 0 {
		c.AimedShotMin = rc.AimedShotMin
	}
	if rc.AimedShotMax > 0 {
		c.AimedShotMax = rc.AimedShotMax
	}
	if rc.FallingDamageGroup > 0 {
		c.FallGroupSize = rc.FallingDamageGroup
	}
}
