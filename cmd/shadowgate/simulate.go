package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/shadowgate/internal/presenter"
	"github.com/groblegark/shadowgate/internal/simulator"
)

var simulateCmd = &cobra.Command{
	Use:     "simulate <gate-id>",
	Short:   "Simulate requests against a gate",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		count, _ := cmd.Flags().GetInt("count")
		if count < 1 {
			return fmt.Errorf("count must be at least 1")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		pub := openPublisher()
		defer pub.Close()

		ctx := context.Background()
		gate, err := findGate(ctx, st, id)
		if err != nil {
			return err
		}

		sim := simulator.New(st, pub)
		p := presenter.New(os.Stdout)
		for i := 0; i < count; i++ {
			updated, leveledUp, err := sim.Simulate(ctx, gate)
			if err != nil {
				return err
			}
			if leveledUp {
				p.Alert(updated)
			}
			gate = updated
		}

		if jsonOutput {
			printGateJSON(gate)
		} else {
			fmt.Printf("Simulated %d request(s): %s is level %d with %d total requests\n",
				count, gate.Name, gate.Level, gate.TotalRequests)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntP("count", "n", 1, "number of requests to simulate")
}
