package cli

import (
	"github.com/spf13/cobra"

	applabels "github.com/agisilaos/tod/internal/app/labels"
	"github.com/agisilaos/tod/internal/output"
)

func newLabelCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "List and create labels",
	}
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List labels, favourites first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return labelList(ctx)
		},
	}

	var in applabels.AddInput
	create := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a label",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return labelCreate(ctx, in)
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Label name")
	create.Flags().StringVar(&in.Color, "color", "", "Colour name")
	create.Flags().BoolVar(&in.Favorite, "favorite", false, "Mark as favourite")

	cmd.AddCommand(list, create)
	return cmd
}

func labelList(ctx *Context) error {
	labels, err := listAllLabels(ctx)
	if err != nil {
		return err
	}
	labels = applabels.Ordered(labels)
	switch ctx.Mode {
	case output.ModeJSON:
		return output.WriteJSON(ctx.Stdout, labels, output.Meta{RequestID: ctx.RequestID, Count: len(labels)})
	case output.ModeNDJSON:
		return output.WriteNDJSON(ctx.Stdout, labels)
	}
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		name := label.Name
		if ctx.Mode == output.ModeHuman {
			name = ctx.Styles.Glyph(output.IconLabel) + label.Name
		}
		rows = append(rows, []string{label.ID, name})
	}
	if ctx.Mode == output.ModePlain {
		return output.WritePlain(ctx.Stdout, rows)
	}
	return output.WriteTable(ctx.Stdout, []string{"ID", "NAME"}, rows)
}

func labelCreate(ctx *Context, in applabels.AddInput) error {
	body, err := applabels.BuildAddPayload(in)
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "label create", body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	label, reqID, err := ctx.Client.CreateLabel(reqCtx, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeSimpleResult(ctx, "created", label.ID)
}
