package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"periodical/internal/seed"
)

func newInspectCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a seed file and print every derived query as YAML",
		Long: `Load a seed file into an empty catalog and print, for every author and
magazine, the result of each derived query.

Examples:
  catalogctl inspect --seed catalog.yaml
  CATALOG_SEED=catalog.yaml catalogctl inspect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := c.seedFile()
			if err != nil {
				return err
			}
			doc, err := seed.LoadFile(path)
			if err != nil {
				return err
			}

			svc := c.service(cmd)
			if _, err := seed.Apply(cmd.Context(), svc, doc); err != nil {
				return err
			}
			rep, err := seed.BuildReport(cmd.Context(), svc)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(rep); err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			return enc.Close()
		},
	}
	c.bindSeedFlag(cmd)
	return cmd
}
