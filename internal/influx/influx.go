// Package influx manages the InfluxDB client the statistics backend writes
// through. When the server cannot be reached points go to a gzip compressed
// line protocol file instead, which can be imported later with `influx write`.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Buckets written by the engine.
const (
	BucketBattleStats = "battle_stats"
	BucketEngine      = "engine_performance"
)

// Retention of the buckets the manager creates.
const Retention = 90 * 24 * time.Hour

const pingTimeout = 5 * time.Second

// DefaultBucketNames are the default InfluxDB buckets.
var DefaultBucketNames = []string{
	BucketBattleStats,
	BucketEngine,
}

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx disabled")

// settings is the influx.* config section.
type settings struct {
	Enabled bool
	URL     string
	Token   string
	Org     string
}

func loadSettings() settings {
	return settings{
		Enabled: viper.GetBool("influx.enabled"),
		URL: fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port")),
		Token: viper.GetString("influx.token"),
		Org:   viper.GetString("influx.org"),
	}
}

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string

	org        string
	backupFile *os.File
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		BucketNames: DefaultBucketNames,
		Logger:      log,
		BackupPath:  backupPath,
	}
}

// Connect creates the client. An unreachable server is not an error: the
// manager switches to the backup file.
func (m *Manager) Connect() error {
	cfg := loadSettings()
	if !cfg.Enabled {
		return ErrDisabled
	}
	m.org = cfg.Org

	m.Client = influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if ok, err := m.Client.Ping(ctx); err != nil || !ok {
		m.Logger.Warn().Err(err).Str("url", cfg.URL).Str("backupPath", m.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return m.openBackup()
	}

	if err := m.ensureBuckets(context.Background()); err != nil {
		return err
	}
	for _, bucket := range m.BucketNames {
		m.addWriter(bucket)
	}
	m.IsValid = true
	m.Logger.Info().Str("url", cfg.URL).Strs("buckets", m.BucketNames).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	if m.BackupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open influx backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) ensureBuckets(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()
	org, err := orgs.FindOrganizationByName(ctx, m.org)
	if err != nil {
		m.Logger.Info().Str("org", m.org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, m.org)
		if err != nil {
			return fmt.Errorf("create organization %s: %w", m.org, err)
		}
	}

	rule := domain.RetentionRuleTypeExpire
	retention := domain.RetentionRule{Type: &rule, EverySeconds: int64(Retention / time.Second)}
	buckets := m.Client.BucketsAPI()
	for _, bucket := range m.BucketNames {
		if _, err := buckets.FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")
		if _, err := buckets.CreateBucketWithName(ctx, org, bucket, retention); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// addWriter registers the async write API of a bucket and logs its errors.
func (m *Manager) addWriter(bucket string) {
	w := m.Client.WriteAPI(m.org, bucket)
	m.Writers[bucket] = w
	go func(errs <-chan error) {
		for err := range errs {
			m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error sending data to InfluxDB")
		}
	}(w.Errors())
}

// WritePoint writes a point to InfluxDB or backup file.
func (m *Manager) WritePoint(_ context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		w, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		w.WritePoint(point)
		return nil
	}
	if m.BackupWriter == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("write influx backup: %w", err)
	}
	return nil
}

// Close flushes pending writes and releases the client and the backup file.
func (m *Manager) Close() error {
	var errs []error
	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		errs = append(errs, m.BackupWriter.Close())
		m.BackupWriter = nil
	}
	if m.backupFile != nil {
		errs = append(errs, m.backupFile.Close())
		m.backupFile = nil
	}
	m.IsValid = false
	return errors.Join(errs...)
}
