package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agisilaos/tod/internal/api"
	appprojects "github.com/agisilaos/tod/internal/app/projects"
	"github.com/agisilaos/tod/internal/output"
)

func newProjectCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "List, create and delete projects",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects as a tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return projectList(ctx)
		},
	}

	var in appprojects.AddInput
	create := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return projectCreate(ctx, in)
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Project name")
	create.Flags().StringVar(&in.ParentID, "parent", "", "Parent project name or id")
	create.Flags().StringVar(&in.Color, "color", "", "Colour name")
	create.Flags().BoolVar(&in.Favorite, "favorite", false, "Mark as favourite")

	var deleteID string
	remove := &cobra.Command{
		Use:     "delete [project]",
		Aliases: []string{"rm"},
		Short:   "Delete a project and its tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return projectDelete(ctx, deleteID, args)
		},
	}
	remove.Flags().StringVar(&deleteID, "id", "", "Project id, URL or name")

	cmd.AddCommand(list, create, remove)
	return cmd
}

func projectList(ctx *Context) error {
	projects, err := listAllProjects(ctx)
	if err != nil {
		return err
	}
	ordered, depths := appprojects.Tree(projects)
	switch ctx.Mode {
	case output.ModeJSON:
		return output.WriteJSON(ctx.Stdout, ordered, output.Meta{RequestID: ctx.RequestID, Count: len(ordered)})
	case output.ModeNDJSON:
		return output.WriteNDJSON(ctx.Stdout, ordered)
	}
	rows := make([][]string, 0, len(ordered))
	for i, project := range ordered {
		name := project.Name
		if ctx.Mode == output.ModeHuman {
			name = strings.Repeat("  ", depths[i]) + ctx.Styles.Glyph(output.IconProject) + " " + project.Name
			if project.IsFavorite {
				name += " " + ctx.Styles.Glyph(output.IconComment)
			}
		}
		rows = append(rows, []string{project.ID, name})
	}
	if ctx.Mode == output.ModePlain {
		return output.WritePlain(ctx.Stdout, rows)
	}
	return output.WriteTable(ctx.Stdout, []string{"ID", "NAME"}, rows)
}

func projectCreate(ctx *Context, in appprojects.AddInput) error {
	parentID, err := selectorResolver{ctx: ctx}.ResolveProjectSelector(in.ParentID)
	if err != nil {
		return err
	}
	in.ParentID = parentID
	body, err := appprojects.BuildAddPayload(in)
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "project create", body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	project, reqID, err := ctx.Client.CreateProject(reqCtx, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, project, output.Meta{RequestID: ctx.RequestID})
	}
	return writeSimpleResult(ctx, "created", project.ID)
}

func projectDelete(ctx *Context, ref string, args []string) error {
	if ref == "" {
		ref = joinArgs(args)
	}
	if err := requireNonEmpty(ref, "--id"); err != nil {
		return err
	}
	project, err := findProject(ctx, ref)
	if err != nil {
		return err
	}
	if err := appprojects.ValidateDelete(project); err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "project delete "+project.ID, map[string]any{"name": project.Name})
	}
	ok, err := confirm(ctx, fmt.Sprintf("Delete project %q and all of its tasks?", project.Name))
	if err != nil {
		return err
	}
	if !ok {
		return &CodeError{Code: exitError, Err: errAborted}
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	reqID, err := ctx.Client.DeleteProject(reqCtx, project.ID)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeSimpleResult(ctx, "deleted", project.ID)
}

func findProject(ctx *Context, ref string) (api.Project, error) {
	projects, err := listAllProjects(ctx)
	if err != nil {
		return api.Project{}, err
	}
	id, err := selectorResolver{ctx: ctx}.ResolveProjectSelector(ref)
	if err != nil {
		return api.Project{}, err
	}
	for _, project := range projects {
		if project.ID == id {
			return project, nil
		}
	}
	return api.Project{ID: id}, nil
}
