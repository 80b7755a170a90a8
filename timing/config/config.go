// Package config holds the JSON-loadable machine description for the
// Tomasulo engine: ROB size, reservation-station/load-buffer counts, issue
// width, and the functional-unit table. Its shape (LoadConfig/SaveConfig/
// Validate/Clone over a struct marshaled with encoding/json) mirrors a
// timing latency table loaded from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/tomasim/isa"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// UnitEntry describes one functional-unit type in the JSON configuration
// file: Instances copies of a unit of Type, each taking Latency cycles.
type UnitEntry struct {
	Type      string `json:"type"`
	Latency   uint32 `json:"latency"`
	Instances uint32 `json:"instances"`
}

// EngineConfig is the JSON-serializable machine description fed to
// cmd/tomasim, or constructed directly by an embedder. MemoryBytes sizes
// emu.Memory; the remaining fields are the mandatory and optional
// constructor parameters of §6.1.
type EngineConfig struct {
	MemoryBytes uint32      `json:"memory_bytes"`
	ROBSize     uint32      `json:"rob_size"`
	IntRS       uint32      `json:"int_rs"`
	AddRS       uint32      `json:"add_rs"`
	MultRS      uint32      `json:"mult_rs"`
	LoadBuffers uint32      `json:"load_buffers"`
	IssueWidth  uint32      `json:"issue_width"`
	Units       []UnitEntry `json:"units"`
}

// Default returns the machine description used when the CLI is given no
// --config flag: a modest single-issue machine with one unit of each
// type, matching the §6.6 example configuration.
func Default() *EngineConfig {
	return &EngineConfig{
		MemoryBytes: 4096,
		ROBSize:     6,
		IntRS:       3,
		AddRS:       3,
		MultRS:      2,
		LoadBuffers: 3,
		IssueWidth:  1,
		Units: []UnitEntry{
			{Type: "INTEGER", Latency: 1, Instances: 1},
			{Type: "ADDER", Latency: 2, Instances: 1},
			{Type: "MULTIPLIER", Latency: 4, Instances: 1},
			{Type: "DIVIDER", Latency: 8, Instances: 1},
			{Type: "MEMORY", Latency: 2, Instances: 1},
		},
	}
}

// LoadConfig reads an EngineConfig from a JSON file, starting from
// Default so an omitted field keeps its default value.
func LoadConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the EngineConfig to path as indented JSON.
func (c *EngineConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks structural sanity (a non-zero memory size and a
// recognized type for every unit entry) and delegates the functional-unit/RS-class
// cross-check to tomasulo.Config.Validate via ToEngineConfig.
func (c *EngineConfig) Validate() error {
	if c.MemoryBytes == 0 {
		return fmt.Errorf("config: memory_bytes must be at least 1")
	}
	engCfg, err := c.ToEngineConfig()
	if err != nil {
		return err
	}
	return engCfg.Validate()
}

// Clone returns a deep copy of the EngineConfig.
func (c *EngineConfig) Clone() *EngineConfig {
	units := make([]UnitEntry, len(c.Units))
	copy(units, c.Units)
	clone := *c
	clone.Units = units
	return &clone
}

// ToEngineConfig translates the JSON-friendly EngineConfig into a
// tomasulo.Config, resolving each UnitEntry's Type string via
// isa.ParseUnitType.
func (c *EngineConfig) ToEngineConfig() (tomasulo.Config, error) {
	units := make([]tomasulo.UnitSpec, len(c.Units))
	for i, u := range c.Units {
		t, ok := isa.ParseUnitType(u.Type)
		if !ok {
			return tomasulo.Config{}, fmt.Errorf("config: unknown unit type %q", u.Type)
		}
		units[i] = tomasulo.UnitSpec{Type: t, Latency: u.Latency, Instances: u.Instances}
	}
	return tomasulo.Config{
		ROBSize:     c.ROBSize,
		IntRS:       c.IntRS,
		AddRS:       c.AddRS,
		MultRS:      c.MultRS,
		LoadBuffers: c.LoadBuffers,
		IssueWidth:  c.IssueWidth,
		Units:       units,
	}, nil
}
