// Package tomasulo implements a cycle-accurate Tomasulo scheduler: the
// reorder buffer, reservation-station pool, functional-unit pool, common
// data bus, and the four-stage (COMMIT, WRITE_RESULT, EXECUTE+CDB, ISSUE)
// cycle driver. It follows a timing/pipeline package's shape (Pipeline,
// HazardUnit, the Tick/Run/Stats surface) with the domain swapped from an
// ARM64 in-order pipeline to an out-of-order Tomasulo core, and is
// grounded algorithmically on the reference sim_ooo::run() cycle loop.
package tomasulo

import (
	"fmt"

	"github.com/sarchlab/tomasim/isa"
)

// UnitSpec describes one functional-unit type to add to the pool:
// Instances copies of a unit of Type, each taking Latency cycles to
// produce a result.
type UnitSpec struct {
	Type      isa.UnitType
	Latency   uint32
	Instances uint32
}

// Config holds the engine's structural parameters: ROB size, the count of
// reservation-station/load-buffer slots per class, the issue width
// (optional, default 1), and the functional-unit table (added one type at
// a time via AddExecutionUnit, mirroring sim_ooo::init_exec_unit — or
// supplied up front here).
type Config struct {
	ROBSize     uint32
	IntRS       uint32
	AddRS       uint32
	MultRS      uint32
	LoadBuffers uint32
	IssueWidth  uint32
	Units       []UnitSpec
}

// Validate reports a configuration error: a zero ROB size, a unit with
// zero instances or zero latency, or a reservation-station/load-buffer
// class with no functional unit able to service it.
func (c Config) Validate() error {
	if c.ROBSize == 0 {
		return fmt.Errorf("tomasulo: rob size must be at least 1")
	}
	if len(c.Units) == 0 {
		return fmt.Errorf("tomasulo: at least one functional unit is required")
	}
	present := make(map[isa.UnitType]bool, len(c.Units))
	for _, u := range c.Units {
		if u.Instances == 0 {
			return fmt.Errorf("tomasulo: unit type %s has zero instances", u.Type)
		}
		if u.Latency == 0 {
			return fmt.Errorf("tomasulo: unit type %s has zero latency", u.Type)
		}
		present[u.Type] = true
	}
	required := []struct {
		count uint32
		units []isa.UnitType
		name  string
	}{
		{c.IntRS, []isa.UnitType{isa.Integer}, "int RS"},
		{c.AddRS, []isa.UnitType{isa.Adder}, "add RS"},
		{c.MultRS, []isa.UnitType{isa.Multiplier, isa.Divider}, "mult/div RS"},
		{c.LoadBuffers, []isa.UnitType{isa.MemoryUnit}, "load buffers"},
	}
	for _, req := range required {
		if req.count == 0 {
			continue
		}
		ok := false
		for _, ut := range req.units {
			if present[ut] {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("tomasulo: %s is configured but no matching functional unit is present", req.name)
		}
	}
	return nil
}

// issueWidthOrDefault returns IssueWidth, defaulting to 1 when unset.
func (c Config) issueWidthOrDefault() uint32 {
	if c.IssueWidth == 0 {
		return 1
	}
	return c.IssueWidth
}

// rsCount returns the configured slot count for class.
func (c Config) rsCount(class isa.RSClass) uint32 {
	switch class {
	case isa.IntegerRS:
		return c.IntRS
	case isa.AddRS:
		return c.AddRS
	case isa.MultRS:
		return c.MultRS
	case isa.LoadRS:
		return c.LoadBuffers
	default:
		return 0
	}
}
