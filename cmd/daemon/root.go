package main

import (
	"github.com/genricoloni/cmusnotify/internal/config"
	"github.com/spf13/cobra"
)

// options holds command line values that override the configuration file
type options struct {
	configPath    string
	logLevel      string
	maxDepth      uint
	forceExternal bool
	noExternal    bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cmus-notify",
		Short:         "Desktop notifications with cover art for cmus",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runDaemon(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.UintVarP(&opts.maxDepth, "max-depth", "d", 0, "Parent directories to search for an external cover")
	flags.BoolVarP(&opts.forceExternal, "force-use-external-cover", "f", false, "Ignore covers embedded in tags")
	flags.BoolVarP(&opts.noExternal, "no-use-external-cover", "n", false, "Never look for cover files on disk")

	rootCmd.AddCommand(newCoverCommand(opts))

	return rootCmd
}

// load reads the configuration file and applies the flags that were set explicitly
func (o *options) load(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("max-depth") {
		cfg.CoverConfig.MaxDepth = o.maxDepth
	}
	if flags.Changed("force-use-external-cover") {
		cfg.CoverConfig.ForceUseExternal = o.forceExternal
	}
	if flags.Changed("no-use-external-cover") {
		cfg.CoverConfig.NoUseExternal = o.noExternal
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
