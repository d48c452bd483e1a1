package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"eud4xr-bridge/internal/domain/registry"
)

func capabilitiesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Print the ECA capabilities of the configured entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			types := reg.Types()
			if !all {
				_, cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				seen := map[string]bool{}
				types = nil
				for _, p := range cfg.UnityEntities {
					t, ok := reg.Type(p.ECAScript)
					if ok && !seen[t.Name] {
						seen[t.Name] = true
						types = append(types, t)
					}
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(registry.DescribeAll(types))
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "describe every known ECA script, not only configured ones")
	return cmd
}
