package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/ui"
)

func printGateJSON(gate *model.Gate) {
	data, err := json.MarshalIndent(gate, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printGateListJSON(gates []*model.Gate) {
	if gates == nil {
		gates = []*model.Gate{}
	}
	data, err := json.MarshalIndent(gates, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printGateListTable(gates []*model.Gate) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tLEVEL\tTODAY\tTOTAL")
	for _, g := range gates {
		name := g.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		status := g.Status.String()
		if g.Status == model.StatusActive {
			status = ui.RenderSuccess(status)
		} else {
			status = ui.RenderDanger(status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			ui.RenderMuted(g.ID),
			name,
			status,
			g.Level,
			g.RequestsToday,
			g.TotalRequests,
		)
	}
	w.Flush()
	fmt.Printf("\n%d gates\n", len(gates))
}
