package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"periodical/internal/domain/entity"
	"periodical/internal/observability/logging"
	"periodical/internal/usecase/catalog"
)

var version = "dev"

// cli holds the state shared by every subcommand.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:     "catalogctl",
		Short:   "Work with a periodical catalog from the command line",
		Version: version,
		Long: `catalogctl loads authors, magazines and articles into an in-memory catalog
and prints the results of its queries.

Settings are read from flags, then CATALOG_* environment variables, then the
optional --config file (YAML).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig()
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = c.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newDemoCmd(c),
		newInspectCmd(c),
		newValidateCmd(c),
	)
	return root
}

func (c *cli) initConfig() error {
	c.v.SetEnvPrefix("CATALOG")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if c.cfgFile == "" {
		return nil
	}
	c.v.SetConfigFile(c.cfgFile)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", c.cfgFile, err)
	}
	return nil
}

// service returns a fresh catalog whose logs go to cmd's error stream.
func (c *cli) service(cmd *cobra.Command) *catalog.Service {
	logger := logging.New(logging.Options{
		Format: "text",
		Level:  c.v.GetString("log_level"),
		Writer: cmd.ErrOrStderr(),
	})
	return catalog.NewService(entity.NewRegistry(), catalog.WithLogger(logger))
}

// seedFile returns the configured seed path.
func (c *cli) seedFile() (string, error) {
	path := c.v.GetString("seed")
	if path == "" {
		return "", errors.New("no seed file: pass --seed or set CATALOG_SEED")
	}
	return path, nil
}

// bindSeedFlag adds --seed to cmd. The flag is bound when cmd runs since
// several subcommands share the "seed" key.
func (c *cli) bindSeedFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("seed", "s", "", "seed file (YAML)")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	}
}
