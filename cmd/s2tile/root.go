package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"s2tile/internal/config"
)

// app carries what the subcommands share
type app struct {
	conf   *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{conf: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:          "s2tile",
		Short:        "S2 cell and vector tile tools",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger, err := newLogger(a.conf.GetBool("verbose"))
			if err != nil {
				return errors.Wrap(err, "build logger")
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.BoolP("verbose", "v", false, "debug logging")
	if err := a.conf.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(newCellCmd(a), newNeighborsCmd(a), newTileCmd(a))
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// config resolves tiling settings from flags, file and environment
func (a *app) config() (config.Config, error) {
	return config.Load(a.conf)
}
