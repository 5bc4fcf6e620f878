package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/shadowgate/internal/bridge"
	"github.com/groblegark/shadowgate/internal/config"
	"github.com/groblegark/shadowgate/internal/store"
	"github.com/groblegark/shadowgate/internal/store/local"
	"github.com/groblegark/shadowgate/internal/store/postgres"
	"github.com/groblegark/shadowgate/internal/ui"
)

var (
	dbPath     string
	natsURL    string
	gatewayURL string
	jsonOutput bool
	noColor    bool
)

func defaultGatewayURL() string {
	if s := os.Getenv("SHADOWGATE_GATEWAY_URL"); s != "" {
		return s
	}
	if u := activeProfileGatewayURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultNATSURL() string {
	if s := os.Getenv("SHADOWGATE_NATS_URL"); s != "" {
		return s
	}
	return activeProfileNATSURL()
}

var rootCmd = &cobra.Command{
	Use:   "shadowgate <command>",
	Short: "Manage gates and serve the interception gateway",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

// openStore opens the configured store: Postgres when a database URL is set,
// the local file store otherwise.
func openStore() (store.Store, error) {
	if url := os.Getenv("SHADOWGATE_DATABASE_URL"); url != "" {
		return postgres.New(url)
	}
	return local.New(dbPath)
}

// openPublisher connects to NATS when configured; otherwise announcements are
// dropped and the gateway relies on its request fallback.
func openPublisher() bridge.Publisher {
	if natsURL == "" {
		return &bridge.NoopPublisher{}
	}
	bus, err := bridge.NewNATSBus(natsURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: NATS unavailable, gate announcements disabled: %v\n", err)
		return &bridge.NoopPublisher{}
	}
	return bus
}

func init() {
	cfgDefaults, _ := config.Load()
	defaultDB := "shadowgate.db"
	if cfgDefaults != nil {
		defaultDB = cfgDefaults.DBPath
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to the local gate database")
	rootCmd.PersistentFlags().StringVar(&natsURL, "nats-url", defaultNATSURL(), "NATS URL for gate announcements")
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway-url", defaultGatewayURL(), "gateway base URL for probe commands")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "gates", Title: "Gates:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Gates
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(probeCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
