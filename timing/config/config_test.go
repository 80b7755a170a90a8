package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/isa"
	"github.com/sarchlab/tomasim/timing/config"
)

var _ = Describe("Default", func() {
	It("produces a config that validates cleanly", func() {
		cfg := config.Default()
		Expect(cfg.Validate()).To(Succeed())
	})

	It("resolves every unit entry to a known isa.UnitType", func() {
		cfg := config.Default()
		engCfg, err := cfg.ToEngineConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(engCfg.Units).To(HaveLen(len(cfg.Units)))
		Expect(engCfg.Units[0].Type).To(Equal(isa.Integer))
	})
})

var _ = Describe("Validate", func() {
	It("rejects a zero memory size", func() {
		cfg := config.Default()
		cfg.MemoryBytes = 0
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("rejects a reservation-station class with no matching unit", func() {
		cfg := config.Default()
		cfg.Units = []config.UnitEntry{{Type: "MEMORY", Latency: 1, Instances: 1}}
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("rejects an unknown unit type string", func() {
		cfg := config.Default()
		cfg.Units = append(cfg.Units, config.UnitEntry{Type: "QUANTUM", Latency: 1, Instances: 1})
		Expect(cfg.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("Clone", func() {
	It("returns an independent copy", func() {
		cfg := config.Default()
		clone := cfg.Clone()
		clone.Units[0].Latency = 99
		Expect(cfg.Units[0].Latency).NotTo(Equal(uint32(99)))
	})
})

var _ = Describe("LoadConfig and SaveConfig", func() {
	It("round-trips a config through a JSON file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "machine.json")

		cfg := config.Default()
		cfg.ROBSize = 10
		Expect(cfg.SaveConfig(path)).To(Succeed())

		loaded, err := config.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ROBSize).To(Equal(uint32(10)))
		Expect(loaded.Units).To(Equal(cfg.Units))
	})

	It("fails on a missing file", func() {
		_, err := config.LoadConfig("/nonexistent/path/machine.json")
		Expect(err).To(HaveOccurred())
	})

	It("fills in defaults for omitted fields", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "partial.json")
		Expect(os.WriteFile(path, []byte(`{"rob_size": 12}`), 0o644)).To(Succeed())

		loaded, err := config.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ROBSize).To(Equal(uint32(12)))
		Expect(loaded.MemoryBytes).To(Equal(uint32(4096)))
	})
})
