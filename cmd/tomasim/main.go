// Command tomasim runs assembly programs against the out-of-order
// Tomasulo engine and reports the resulting architectural state and
// execution trace.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/isa"
	"github.com/sarchlab/tomasim/timing/config"
	"github.com/sarchlab/tomasim/timing/core"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tomasim",
		Short: "Tomasulo out-of-order scalar processor simulator",
	}

	var (
		configPath string
		cycles     uint32
		trace      bool
	)

	runCmd := &cobra.Command{
		Use:   "run PROGRAM.asm",
		Short: "Run a program to completion (or N cycles) and print final state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := buildSimulator(configPath)
			if err != nil {
				return err
			}
			if err := sim.Load(args[0]); err != nil {
				return fmt.Errorf("tomasim: %w", err)
			}

			sim.Run(cycles)

			fmt.Println(sim.PrintRegisters())
			fmt.Printf("instructions committed: %d\n", sim.InstructionsCommitted())
			fmt.Printf("cycles: %d\n", sim.Cycle())
			fmt.Printf("IPC: %.4f\n", sim.IPC())
			if trace {
				fmt.Println()
				fmt.Println(sim.PrintLog())
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "Machine configuration JSON file")
	runCmd.Flags().Uint32Var(&cycles, "cycles", 0, "Run exactly N cycles (0 = run to completion)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Print the full commit log")

	var dumpConfigPath string
	var dumpCycles uint32

	dumpCmd := &cobra.Command{
		Use:   "dump PROGRAM.asm",
		Short: "Run exactly N cycles and print the full microarchitectural snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dumpCycles == 0 {
				return fmt.Errorf("tomasim: dump requires --cycles > 0")
			}

			sim, err := buildSimulator(dumpConfigPath)
			if err != nil {
				return err
			}
			if err := sim.Load(args[0]); err != nil {
				return fmt.Errorf("tomasim: %w", err)
			}

			sim.Run(dumpCycles)

			fmt.Printf("cycle %d\n\n", sim.Cycle())
			fmt.Println("REGISTERS")
			fmt.Println(sim.PrintRegisters())
			fmt.Println("REORDER BUFFER")
			fmt.Println(sim.PrintROB())
			fmt.Println("RESERVATION STATIONS")
			fmt.Println(sim.PrintRS())
			fmt.Println("PENDING WINDOW")
			fmt.Println(sim.PrintWindow())
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&dumpConfigPath, "config", "", "Machine configuration JSON file")
	dumpCmd.Flags().Uint32Var(&dumpCycles, "cycles", 0, "Run exactly N cycles")

	rootCmd.AddCommand(runCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildSimulator loads the machine configuration at path (or the default
// machine when path is empty), validates it, and constructs the
// Simulator with its functional-unit pool wired up.
func buildSimulator(path string) (*core.Simulator, error) {
	var cfg *config.EngineConfig
	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tomasim: %w", err)
	}

	sim := core.NewSimulator(cfg.MemoryBytes, cfg.ROBSize, cfg.IntRS, cfg.AddRS, cfg.MultRS, cfg.LoadBuffers, cfg.IssueWidth)
	for _, u := range cfg.Units {
		t, ok := isa.ParseUnitType(u.Type)
		if !ok {
			return nil, fmt.Errorf("tomasim: unknown unit type %q", u.Type)
		}
		sim.AddExecutionUnit(t, u.Latency, u.Instances)
	}
	return sim, nil
}
