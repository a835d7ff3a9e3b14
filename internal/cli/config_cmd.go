package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agisilaos/tod/internal/due"
	"github.com/agisilaos/tod/internal/output"
)

func newConfigCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the config file",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ctx.Mode.Machine() {
				return output.WriteJSON(ctx.Stdout, ctx.Config, output.Meta{})
			}
			return output.WriteYAML(ctx.Stdout, ctx.Config)
		},
	}
	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ctx.Mode.Machine() {
				return output.WriteJSON(ctx.Stdout, map[string]string{"path": ctx.ConfigPath}, output.Meta{})
			}
			fmt.Fprintln(ctx.Stdout, ctx.ConfigPath)
			return nil
		},
	}
	setTimezone := &cobra.Command{
		Use:   "set-timezone [zone]",
		Short: "Store the timezone, defaulting to the Todoist account zone",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return configSetTimezone(ctx, joinArgs(args))
		},
	}
	resetWeights := &cobra.Command{
		Use:   "reset-weights",
		Short: "Restore the default sort values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ctx.Global.DryRun {
				return writeDryRun(ctx, "reset sort_value", nil)
			}
			if err := ctx.store().ResetWeights(); err != nil {
				return err
			}
			return writeConfigResult(ctx, "sort_value", "defaults")
		},
	}
	cmd.AddCommand(show, path, setTimezone, resetWeights)
	return cmd
}

func configSetTimezone(ctx *Context, zone string) error {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		tz, err := accountTimezone(ctx)
		if err != nil {
			return err
		}
		zone = tz
	}
	if _, err := due.LoadLocation(zone); err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "set timezone", map[string]string{"timezone": zone})
	}
	if err := ctx.store().SetTimezone(zone); err != nil {
		return err
	}
	ctx.Config.Timezone = zone
	return writeConfigResult(ctx, "timezone", zone)
}

func writeConfigResult(ctx *Context, key, value string) error {
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, map[string]string{key: value, "path": ctx.ConfigPath}, output.Meta{})
	}
	fmt.Fprintf(ctx.Stdout, "%s set to %s in %s\n", key, value, ctx.ConfigPath)
	return nil
}
