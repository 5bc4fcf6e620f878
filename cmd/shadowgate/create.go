package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/shadowgate/internal/bridge"
	"github.com/groblegark/shadowgate/internal/idgen"
	"github.com/groblegark/shadowgate/internal/model"
)

var createCmd = &cobra.Command{
	Use:     "create <name> <source-url>",
	Short:   "Create a new gate for a connected source",
	GroupID: "gates",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, source := args[0], args[1]
		if name == "" {
			return fmt.Errorf("gate name must not be empty")
		}
		if _, err := url.ParseRequestURI(source); err != nil {
			return fmt.Errorf("invalid source URL %q: %w", source, err)
		}

		id, err := idgen.Generate()
		if err != nil {
			return fmt.Errorf("generating gate ID: %w", err)
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		gate := &model.Gate{
			ID:             id,
			Name:           name,
			SourceURL:      source,
			Status:         model.StatusActive,
			CreatedAt:      time.Now().UTC(),
			RequestsToday:  0,
			TotalRequests:  0,
			Level:          1,
			ActivitySeries: model.NewActivitySeries(rng),
		}
		if err := model.ValidateGate(gate); err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		if err := st.Append(ctx, gate); err != nil {
			return fmt.Errorf("saving gate: %w", err)
		}

		// Announce the new list so running gateways pick it up. Best effort.
		pub := openPublisher()
		defer pub.Close()
		if gates, err := st.List(ctx); err == nil {
			_ = pub.Publish(ctx, bridge.TopicProjectsSync, bridge.NewProjectsSync(gates))
		}

		if jsonOutput {
			printGateJSON(gate)
		} else {
			fmt.Printf("Created gate %s\n", gate.ID)
			fmt.Printf("  Data endpoint: %s/%s/data\n", gatewayURL, gate.ID)
		}
		return nil
	},
}
