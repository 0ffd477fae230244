package main

import (
	"fmt"

	"github.com/genricoloni/cmusnotify/internal/cover"
	"github.com/genricoloni/cmusnotify/internal/tags"
	"github.com/spf13/cobra"
)

func newCoverCommand(opts *options) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "cover <track-file>",
		Short: "Show which cover would be used for a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			settings := cfg.Cover()
			resolver := cover.NewResolver(logger, tags.NewReader(logger), settings.TempDir)
			result := resolver.ResolveCover(args[0], settings.MaxDepth, settings.ForceUseExternal, settings.NoUseExternal)

			out := cmd.OutOrStdout()
			switch c := result.(type) {
			case cover.Embedded:
				fmt.Fprintf(out, "embedded\t%s\n", c.File.Path())
				if !keep {
					return c.File.Release()
				}
			case cover.External:
				fmt.Fprintf(out, "external\t%s\n", c.Path)
			case cover.None:
				fmt.Fprintln(out, "none")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Keep the extracted embedded picture on disk")
	return cmd
}
