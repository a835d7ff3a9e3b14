package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agisilaos/tod/internal/output"
)

func newRootCmd(ctx *Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "tod",
		Short:         "Work through your Todoist tasks, highest value first",
		Version:       fmt.Sprintf("%s (%s) %s", Version, Commit, Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.setup()
		},
	}
	root.SetVersionTemplate("tod {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &CodeError{Code: exitUsage, Err: err}
	})

	flags := root.PersistentFlags()
	g := &ctx.Global
	flags.BoolVar(&g.JSON, "json", false, "Output JSON")
	flags.BoolVar(&g.Plain, "plain", false, "Output tab-separated text")
	flags.BoolVar(&g.NDJSON, "ndjson", false, "Output one JSON object per line")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "Only log errors")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "Log requests and decisions")
	flags.BoolVar(&g.NoColor, "no-color", false, "Disable colour")
	flags.BoolVar(&g.NoInput, "no-input", false, "Never prompt")
	flags.IntVar(&g.TimeoutSec, "timeout", 0, "Request timeout in seconds")
	flags.StringVar(&g.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tod/config.json)")
	flags.StringVar(&g.Profile, "profile", "", "Credential profile")
	flags.StringVar(&g.BaseURL, "base-url", "", "Todoist API base URL")
	flags.StringVar(&g.Timezone, "timezone", "", "Timezone for dates without one")
	flags.BoolVarP(&g.DryRun, "dry-run", "n", false, "Show what would change without changing it")
	flags.BoolVarP(&g.Force, "force", "f", false, "Skip confirmations")

	root.AddCommand(
		newTaskCmd(ctx),
		newListCmd(ctx),
		newProjectCmd(ctx),
		newSectionCmd(ctx),
		newLabelCmd(ctx),
		newCommentCmd(ctx),
		newAuthCmd(ctx),
		newConfigCmd(ctx),
		newVersionCmd(ctx),
	)
	return root
}

func newVersionCmd(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ctx.Mode.Machine() {
				return output.WriteJSON(ctx.Stdout, map[string]string{
					"version": Version,
					"commit":  Commit,
					"date":    Date,
				}, output.Meta{})
			}
			fmt.Fprintf(ctx.Stdout, "tod %s (%s) %s\n", Version, Commit, Date)
			return nil
		},
	}
}
