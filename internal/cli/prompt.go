package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/agisilaos/tod/internal/output"
)

var errAborted = errors.New("aborted")

type Prompter interface {
	Confirm(title string) (bool, error)
	Select(title string, options []string) (string, error)
	Input(title, placeholder string) (string, error)
	Secret(title string) (string, error)
}

type huhPrompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

func newHuhPrompter(in io.Reader, out io.Writer, plain bool) *huhPrompter {
	return &huhPrompter{in: in, out: out, accessible: plain || os.Getenv("ACCESSIBLE") != ""}
}

func (p *huhPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.in).
		WithOutput(p.out).
		WithAccessible(p.accessible)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return err
	}
	return nil
}

func (p *huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := p.run(huh.NewConfirm().Title(title).Value(&ok))
	return ok, err
}

func (p *huhPrompter) Select(title string, options []string) (string, error) {
	var choice string
	err := p.run(huh.NewSelect[string]().Title(title).Options(huh.NewOptions(options...)...).Value(&choice))
	return choice, err
}

func (p *huhPrompter) Input(title, placeholder string) (string, error) {
	var value string
	err := p.run(huh.NewInput().Title(title).Placeholder(placeholder).Value(&value))
	return strings.TrimSpace(value), err
}

func (p *huhPrompter) Secret(title string) (string, error) {
	var value string
	err := p.run(huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&value))
	return strings.TrimSpace(value), err
}

func readAllTrim(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func requireInteractive(ctx *Context, hint string) error {
	if ctx.Global.NoInput {
		return usageError("input required; %s", hint)
	}
	if ctx.Prompter == nil {
		return usageError("input required; %s", hint)
	}
	if _, isHuh := ctx.Prompter.(*huhPrompter); isHuh && !output.IsTTY(ctx.Stdin) {
		return usageError("stdin is not a terminal; %s", hint)
	}
	return nil
}

func confirm(ctx *Context, prompt string) (bool, error) {
	if ctx.Global.Force {
		return true, nil
	}
	if err := requireInteractive(ctx, "re-run with --force"); err != nil {
		return false, err
	}
	ok, err := ctx.Prompter.Confirm(prompt)
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
