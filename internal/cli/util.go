package cli

import (
	"fmt"
	"strings"

	"github.com/agisilaos/tod/internal/output"
)

func writeDryRun(ctx *Context, action string, payload any) error {
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, map[string]any{
			"action":  action,
			"payload": payload,
			"dry_run": true,
		}, output.Meta{})
	}
	fmt.Fprintf(ctx.Stdout, "dry run: %s\n", action)
	if payload != nil {
		if err := output.WriteYAML(ctx.Stdout, payload); err != nil {
			return err
		}
	}
	return nil
}

func writeSimpleResult(ctx *Context, status, id string) error {
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, map[string]any{
			"id":     id,
			"status": status,
		}, output.Meta{RequestID: ctx.RequestID})
	}
	fmt.Fprintf(ctx.Stdout, "%s %s\n", status, id)
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func requireNonEmpty(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return usageError("%s is required", field)
	}
	return nil
}

func truncateString(value string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
