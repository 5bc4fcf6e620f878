package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/presenter"
	"github.com/groblegark/shadowgate/internal/store"
)

var showCmd = &cobra.Command{
	Use:     "show <gate-id>",
	Short:   "Show one gate's detail card",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		timeframe, _ := cmd.Flags().GetString("timeframe")
		tab, _ := cmd.Flags().GetString("tab")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		gate, err := findGate(context.Background(), st, id)
		if err != nil {
			return err
		}

		if jsonOutput {
			printGateJSON(gate)
			return nil
		}

		p := presenter.New(os.Stdout)
		if err := p.SetTimeframe(model.Window(timeframe)); err != nil {
			return err
		}
		if err := p.SetTab(presenter.Tab(tab)); err != nil {
			return err
		}
		p.Render(gate, gatewayURL)
		return nil
	},
}

func init() {
	showCmd.Flags().String("timeframe", "7d", "activity window (7d, 30d, 90d)")
	showCmd.Flags().String("tab", "overview", "detail tab (overview, endpoints, integration)")
}

// findGate loads the gate with the given ID from the store.
func findGate(ctx context.Context, st store.Store, id string) (*model.Gate, error) {
	gates, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range gates {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("gate %s not found", id)
}
