package main

import (
	"context"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all gates",
	GroupID: "gates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		gates, err := st.List(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			printGateListJSON(gates)
		} else {
			printGateListTable(gates)
		}
		return nil
	},
}
