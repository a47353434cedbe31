package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"periodical/internal/seed"
)

func newValidateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a seed file without printing the catalog",
		Long: `Check that a seed file parses, that its keys are unique and resolvable, and
that the catalog accepts every entity it describes.`,
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
			res, err := seed.Apply(cmd.Context(), c.service(cmd), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d magazines, %d authors, %d articles)\n",
				path, len(res.Magazines), len(res.Authors), len(res.Articles))
			return nil
		},
	}
	c.bindSeedFlag(cmd)
	return cmd
}
