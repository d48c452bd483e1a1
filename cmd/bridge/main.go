package main

import (
	"os"

	"github.com/spf13/cobra"

	"eud4xr-bridge/internal/adapters/output/persistence"
)

func main() {
	root := &cobra.Command{
		Use:   "eud4xr-bridge",
		Short: "Bridge between the eud4xr Unity runtime and Home Assistant",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	defaultConfig := os.Getenv(persistence.EnvConfigPath)
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	root.PersistentFlags().String("config", defaultConfig, "path to the bridge configuration file")

	root.AddCommand(serveCmd())
	root.AddCommand(capabilitiesCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
