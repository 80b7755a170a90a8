// Package main provides a banner entry point for tomasim.
// tomasim is a cycle-accurate Tomasulo out-of-order scalar processor
// simulator.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tomasim - Tomasulo out-of-order scalar processor simulator")
	fmt.Println("")
	fmt.Println("Usage: tomasim run [--config FILE] [--cycles N] [--trace] PROGRAM.asm")
	fmt.Println("       tomasim dump [--config FILE] --cycles N PROGRAM.asm")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomasim' instead.")
	}
}
