package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/shadowgate/internal/client"
)

var probeCmd = &cobra.Command{
	Use:     "probe <gate-id>",
	Short:   "Query a running gateway's API for a gate",
	GroupID: "gates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		endpoint, _ := cmd.Flags().GetString("endpoint")

		c := client.New(gatewayURL)
		ctx := context.Background()

		var payload any
		var err error
		switch endpoint {
		case "status":
			payload, err = c.Status(ctx, id)
		case "data":
			payload, err = c.Data(ctx, id)
		case "identity":
			payload, err = c.Identity(ctx, id)
		default:
			return fmt.Errorf("unknown endpoint %q (must be status, data, or identity)", endpoint)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	},
}

func init() {
	probeCmd.Flags().StringP("endpoint", "e", "status", "which endpoint to query (status, data, identity)")
}
