package cli

import (
	"github.com/spf13/cobra"

	appsections "github.com/agisilaos/tod/internal/app/sections"
	"github.com/agisilaos/tod/internal/output"
)

func newSectionCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "List and create sections",
	}

	var listProject string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the sections of a project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sectionList(ctx, listProject)
		},
	}
	list.Flags().StringVarP(&listProject, "project", "p", "", "Project name, id or URL")

	var createProject, name string
	create := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a section",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sectionCreate(ctx, createProject, name)
		},
	}
	create.Flags().StringVarP(&createProject, "project", "p", "", "Project name, id or URL")
	create.Flags().StringVar(&name, "name", "", "Section name")

	cmd.AddCommand(list, create)
	return cmd
}

func sectionList(ctx *Context, project string) error {
	if err := requireNonEmpty(project, "--project"); err != nil {
		return err
	}
	projectID, err := selectorResolver{ctx: ctx}.ResolveProjectSelector(project)
	if err != nil {
		return err
	}
	sections, err := listAllSections(ctx, projectID)
	if err != nil {
		return err
	}
	switch ctx.Mode {
	case output.ModeJSON:
		return output.WriteJSON(ctx.Stdout, sections, output.Meta{RequestID: ctx.RequestID, Count: len(sections)})
	case output.ModeNDJSON:
		return output.WriteNDJSON(ctx.Stdout, sections)
	}
	rows := make([][]string, 0, len(sections))
	for _, section := range sections {
		rows = append(rows, []string{section.ID, section.Name})
	}
	if ctx.Mode == output.ModePlain {
		return output.WritePlain(ctx.Stdout, rows)
	}
	return output.WriteTable(ctx.Stdout, []string{"ID", "NAME"}, rows)
}

func sectionCreate(ctx *Context, project, name string) error {
	projectID, err := selectorResolver{ctx: ctx}.ResolveProjectSelector(project)
	if err != nil {
		return err
	}
	body, err := appsections.BuildAddPayload(appsections.AddInput{Name: name, ProjectID: projectID})
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "section create", body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	section, reqID, err := ctx.Client.CreateSection(reqCtx, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeSimpleResult(ctx, "created", section.ID)
}
