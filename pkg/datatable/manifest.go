package datatable

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// Manifest describes one datatable build run. It is written as a YAML
// sidecar next to the container so a run's provenance can be checked
// without decoding the binary payload.
type Manifest struct {
	RunID        string    `yaml:"run_id"`
	DataRoot     string    `yaml:"data_root"`
	Container    string    `yaml:"container"`
	Speakers     int       `yaml:"speakers"`
	Basenames    int       `yaml:"basenames"`
	Pairs        int       `yaml:"pairs"`
	MaxSeqLength int       `yaml:"max_seq_length"`
	SizeBytes    int64     `yaml:"size_bytes"`
	StartedAt    time.Time `yaml:"started_at"`
	FinishedAt   time.Time `yaml:"finished_at"`
}

// NewManifest seeds a manifest for a build run starting now.
func NewManifest(root string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		DataRoot:  root,
		StartedAt: time.Now().UTC(),
	}
}

// Finish fills in the result fields from the assembled datatable and
// the written container file.
func (m *Manifest) Finish(d *Datatable, containerPath string, speakers, basenames int) error {
	info, err := os.Stat(containerPath)
	if err != nil {
		return fmt.Errorf("datatable: manifest stat container: %w", err)
	}
	m.Container = containerPath
	m.Speakers = speakers
	m.Basenames = basenames
	m.Pairs = d.Pairs()
	m.MaxSeqLength = d.MaxSeqLength
	m.SizeBytes = info.Size()
	m.FinishedAt = time.Now().UTC()
	return nil
}

// Write serializes the manifest as YAML to path.
func (m *Manifest) Write(path string) error {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("datatable: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("datatable: write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest sidecar from path.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datatable: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("datatable: parse manifest %s: %w", path, err)
	}
	return &m, nil
}
