package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bodul/collabcross/internal/layout"
)

const maxGridSize = 99

type Config struct {
	bind     string
	gridSize int
	port     int
	verbose  bool
	version  bool

	trustedProxy bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.gridSize < layout.MinWordLength || c.gridSize > maxGridSize {
		return fmt.Errorf("invalid grid size (must be between %d-%d inclusive): %d", layout.MinWordLength, maxGridSize, c.gridSize)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("COLLABCROSS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "collabcross",
		Short:         "Create and solve crossword puzzles from the browser.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return Serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: COLLABCROSS_BIND)")
	fs.IntVarP(&cfg.gridSize, "grid-size", "g", layout.DefaultGridSize, "side of the square puzzle grid (env: COLLABCROSS_GRID_SIZE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: COLLABCROSS_PORT)")
	fs.BoolVar(&cfg.trustedProxy, "trusted-proxy", false, "take client addresses from CF-Connecting-IP/X-Real-IP headers (env: COLLABCROSS_TRUSTED_PROXY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: COLLABCROSS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: COLLABCROSS_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("collabcross v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
