// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/ironhex/combat/internal/storage/memory/export/v1"
)

// exportJSON writes the battle log to a (optionally gzipped) JSON file
func (b *Backend) exportJSON() error {
	export := v1.Build(&v1.BattleData{
		Battle:  b.battle,
		Events:  b.events,
		EndTime: b.now(),
	})

	outputPath := filepath.Join(b.cfg.OutputDir, b.fileName())

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) fileName() string {
	name := strings.NewReplacer(" ", "_", ":", "_", "/", "_").Replace(b.battle.Name)
	if name == "" {
		name = "battle"
	}
	timestamp := b.battle.StartTime.Format("20060102_150405")
	if b.cfg.CompressOutput {
		return fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	}
	return fmt.Sprintf("%s_%s.json", name, timestamp)
}

func writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

// ReadExport loads an export written by EndBattle, gzipped or not.
func ReadExport(path string) (v1.Export, error) {
	var export v1.Export

	f, err := os.Open(path)
	if err != nil {
		return export, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return export, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		decoder = json.NewDecoder(gz)
	}

	if err := decoder.Decode(&export); err != nil {
		return export, fmt.Errorf("failed to decode export: %w", err)
	}
	return export, nil
}
