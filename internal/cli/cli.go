package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/app/refs"
	"github.com/agisilaos/tod/internal/clock"
	"github.com/agisilaos/tod/internal/config"
	"github.com/agisilaos/tod/internal/output"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitAuth     = 3
	exitNotFound = 4
	exitConflict = 5
)

const defaultProfile = "default"

var openTokenStoreFn = config.OpenTokenStore

type GlobalOptions struct {
	Quiet      bool
	Verbose    bool
	JSON       bool
	Plain      bool
	NDJSON     bool
	NoColor    bool
	NoInput    bool
	TimeoutSec int
	ConfigPath string
	Profile    string
	BaseURL    string
	Timezone   string
	DryRun     bool
	Force      bool
}

type Context struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Global     GlobalOptions
	Mode       output.Mode
	Styles     output.Styles
	Logger     *log.Logger
	Config     config.Config
	ConfigPath string
	Profile    string

	Token       string
	TokenSource string
	Tokens      *config.TokenStore

	Client    *api.Client
	Clock     clock.Provider
	Prompter  Prompter
	RequestID string

	lookupCache *lookupCache
}

func Execute(args []string, stdout, stderr io.Writer) int {
	ctx := &Context{
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  os.Stdin,
		Clock:  clock.System{},
	}
	root := newRootCmd(ctx)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		writeError(ctx, err)
	}
	return toExitCode(err)
}

func (ctx *Context) setup() error {
	mode, err := output.DetectMode(ctx.Global.JSON, ctx.Global.Plain, ctx.Global.NDJSON, output.IsTTY(ctx.Stdout))
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	ctx.Mode = mode
	if ctx.Global.Quiet && ctx.Global.Verbose {
		return &CodeError{Code: exitUsage, Err: errors.New("--quiet and --verbose are mutually exclusive")}
	}
	ctx.Logger = newLogger(ctx.Stderr, ctx.Global)
	if err := loadConfig(ctx); err != nil {
		return err
	}
	ctx.Styles = output.NewStyles(ctx.Stdout, output.StyleOptions{
		Color: mode == output.ModeHuman && !ctx.Global.NoColor && os.Getenv("NO_COLOR") == "",
		Links: mode == output.ModeHuman && !ctx.Config.DisableLinks,
	})
	if ctx.Prompter == nil {
		ctx.Prompter = newHuhPrompter(ctx.Stdin, ctx.Stderr, ctx.Global.NoColor)
	}
	return loadToken(ctx)
}

func newLogger(w io.Writer, opts GlobalOptions) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "tod",
		ReportTimestamp: opts.Verbose,
		TimeFormat:      time.Kitchen,
	})
	switch {
	case opts.Verbose:
		logger.SetLevel(log.DebugLevel)
	case opts.Quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func loadConfig(ctx *Context) error {
	configPath := ctx.Global.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("TOD_CONFIG")
	}
	if configPath == "" {
		path, err := config.DefaultUserConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}
	ctx.ConfigPath = configPath
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	overrides := map[string]any{}
	if ctx.Global.BaseURL != "" {
		overrides["base_url"] = ctx.Global.BaseURL
	}
	if ctx.Global.TimeoutSec > 0 {
		overrides["timeout_seconds"] = ctx.Global.TimeoutSec
	}
	if ctx.Global.Timezone != "" {
		overrides["timezone"] = ctx.Global.Timezone
	}
	cfg, err := config.Load(config.LoadOptions{
		UserPath:    configPath,
		ProjectPath: config.DefaultProjectConfigPath(cwd),
		Overrides:   overrides,
	})
	if err != nil {
		return err
	}
	ctx.Config = cfg
	ctx.logger().Debug("loaded config", "path", configPath)

	profile := ctx.Global.Profile
	if profile == "" {
		profile = os.Getenv("TOD_PROFILE")
	}
	if profile == "" {
		profile = cfg.DefaultProfile
	}
	if profile == "" {
		profile = defaultProfile
	}
	ctx.Profile = profile
	return nil
}

func loadToken(ctx *Context) error {
	if token := strings.TrimSpace(os.Getenv("TOD_TOKEN")); token != "" {
		ctx.Token = token
		ctx.TokenSource = "env"
		return nil
	}
	store, err := ctx.tokenStore()
	if err != nil {
		ctx.logger().Debug("keyring unavailable", "err", err)
		return nil
	}
	token, err := store.Token(ctx.Profile)
	if err != nil {
		ctx.logger().Debug("reading token", "profile", ctx.Profile, "err", err)
		return nil
	}
	if token != "" {
		ctx.Token = token
		ctx.TokenSource = "keyring"
	}
	return nil
}

func (ctx *Context) tokenStore() (*config.TokenStore, error) {
	if ctx.Tokens != nil {
		return ctx.Tokens, nil
	}
	store, err := openTokenStoreFn(ctx.ConfigPath)
	if err != nil {
		return nil, err
	}
	ctx.Tokens = store
	return store, nil
}

func (ctx *Context) logger() *log.Logger {
	if ctx.Logger == nil {
		ctx.Logger = log.New(io.Discard)
	}
	return ctx.Logger
}

func (ctx *Context) store() config.Store {
	return config.Store{Path: ctx.ConfigPath}
}

func ensureClient(ctx *Context) error {
	if ctx.Client != nil {
		return nil
	}
	if ctx.Token == "" {
		return &CodeError{Code: exitAuth, Err: errors.New("missing auth token; run 'tod auth login' or set TOD_TOKEN")}
	}
	ctx.Client = api.NewClient(ctx.Config.BaseURL, ctx.Token, time.Duration(ctx.Config.TimeoutSeconds)*time.Second)
	ctx.Client.Logger = ctx.logger()
	return nil
}

type CodeError struct {
	Code int
	Err  error
}

func (e *CodeError) Error() string {
	return e.Err.Error()
}

func (e *CodeError) Unwrap() error {
	return e.Err
}

func usageError(format string, args ...any) error {
	return &CodeError{Code: exitUsage, Err: fmt.Errorf(format, args...)}
}

func asUsage(err error) error {
	if err == nil || toExitCode(err) != exitError {
		return err
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &CodeError{Code: exitUsage, Err: err}
}

func toExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	var notFound *refs.NotFoundError
	if errors.As(err, &notFound) {
		return exitNotFound
	}
	var ambiguous *refs.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		return exitUsage
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 401, 403:
			return exitAuth
		case 404:
			return exitNotFound
		case 409:
			return exitConflict
		default:
			return exitError
		}
	}
	if isFlagError(err) {
		return exitUsage
	}
	return exitError
}

func isFlagError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "flag needs an argument", "invalid argument", "accepts ", "requires at least", "if any flags in the group"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func requestContext(ctx *Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(ctx.Config.TimeoutSeconds)*time.Second)
}

func setRequestID(ctx *Context, requestID string) {
	if requestID != "" {
		ctx.RequestID = requestID
	}
}

func writeError(ctx *Context, err error) {
	if err == nil {
		return
	}
	if ctx.Mode.Machine() {
		_ = output.WriteError(ctx.Stderr, output.ErrorBody{
			Error:     err.Error(),
			Code:      toExitCode(err),
			RequestID: ctx.RequestID,
		})
		return
	}
	if ctx.RequestID != "" {
		fmt.Fprintf(ctx.Stderr, "error: %s (request_id=%s)\n", err, ctx.RequestID)
		return
	}
	fmt.Fprintf(ctx.Stderr, "error: %s\n", err)
}
