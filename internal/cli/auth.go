package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/agisilaos/tod/internal/output"
)

var performOAuthLogin = authOAuthLogin
var openOAuthBrowserFn = openOAuthBrowser
var waitForOAuthCodeFn = waitForOAuthCode
var exchangeOAuthTokenFn = exchangeOAuthToken

type authLoginOptions struct {
	TokenStdin bool
	OAuth      bool
	oauthOptions
}

func newAuthCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Todoist API token",
	}

	var opts authLoginOptions
	login := &cobra.Command{
		Use:   "login",
		Short: "Store an API token for the current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authLogin(ctx, opts)
		},
	}
	f := login.Flags()
	f.BoolVar(&opts.TokenStdin, "token-stdin", false, "Read the token from stdin")
	f.BoolVar(&opts.OAuth, "oauth", false, "Authorize in the browser with OAuth")
	f.BoolVar(&opts.NoBrowser, "no-browser", false, "Print the OAuth URL instead of opening it")
	f.StringVar(&opts.ClientID, "client-id", "", "OAuth client id")
	f.StringVar(&opts.ClientSecret, "client-secret", "", "OAuth client secret")
	f.StringVar(&opts.AuthorizeURL, "oauth-authorize-url", "", "OAuth authorize URL")
	f.StringVar(&opts.TokenURL, "oauth-token-url", "", "OAuth token URL")
	f.StringVar(&opts.ListenAddr, "oauth-listen", "", "OAuth callback address (host:port)")
	login.MarkFlagsMutuallyExclusive("token-stdin", "oauth")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authStatus(ctx)
		},
	}
	logout := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authLogout(ctx)
		},
	}
	cmd.AddCommand(login, status, logout)
	return cmd
}

func authLogin(ctx *Context, opts authLoginOptions) error {
	if opts.OAuth {
		if opts.TokenStdin {
			return usageError("--token-stdin cannot be used with --oauth")
		}
		cfg, err := buildOAuthConfig(opts.oauthOptions)
		if err != nil {
			return &CodeError{Code: exitUsage, Err: err}
		}
		token, err := performOAuthLogin(ctx, cfg)
		if err != nil {
			return &CodeError{Code: exitAuth, Err: err}
		}
		return storeProfileToken(ctx, token)
	}
	var token string
	if opts.TokenStdin {
		val, err := readAllTrim(ctx.Stdin)
		if err != nil {
			return err
		}
		token = val
	} else {
		if err := requireInteractive(ctx, "use --token-stdin"); err != nil {
			return err
		}
		val, err := ctx.Prompter.Secret("Todoist API token (Settings > Integrations > Developer)")
		if err != nil {
			return err
		}
		token = strings.TrimSpace(val)
	}
	if token == "" {
		return usageError("token is empty")
	}
	return storeProfileToken(ctx, token)
}

func authOAuthLogin(ctx *Context, cfg oauthConfig) (string, error) {
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	authURL := cfg.OAuth2.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	fmt.Fprintf(ctx.Stderr, "OAuth authorization URL:\n%s\n", authURL)
	if !cfg.NoBrowser {
		if err := openOAuthBrowserFn(authURL); err != nil {
			ctx.logger().Warn("could not open browser automatically", "err", err)
			fmt.Fprintln(ctx.Stderr, "Open the OAuth authorization URL manually to continue.")
		}
	}
	code, err := waitForOAuthCodeFn(context.Background(), cfg, state, oauthCallbackTimeout)
	if err != nil {
		return "", err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	return exchangeOAuthTokenFn(reqCtx, cfg, code, verifier)
}

func storeProfileToken(ctx *Context, token string) error {
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "store token for profile "+ctx.Profile, nil)
	}
	store, err := ctx.tokenStore()
	if err != nil {
		return err
	}
	if err := store.SetToken(ctx.Profile, token); err != nil {
		return err
	}
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, map[string]any{
			"profile": ctx.Profile,
			"stored":  true,
		}, output.Meta{})
	}
	fmt.Fprintf(ctx.Stdout, "stored token for profile %q\n", ctx.Profile)
	return nil
}

func authStatus(ctx *Context) error {
	configured := ctx.Token != ""
	source := ctx.TokenSource
	if !configured {
		source = ""
	}
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, map[string]any{
			"profile":    ctx.Profile,
			"configured": configured,
			"source":     source,
		}, output.Meta{})
	}
	if configured {
		fmt.Fprintf(ctx.Stdout, "profile %q token source: %s\n", ctx.Profile, source)
		return nil
	}
	fmt.Fprintf(ctx.Stdout, "profile %q has no token configured\n", ctx.Profile)
	return nil
}

func authLogout(ctx *Context) error {
	store, err := ctx.tokenStore()
	if err != nil {
		return err
	}
	if err := store.DeleteToken(ctx.Profile); err != nil {
		return err
	}
	if ctx.TokenSource == "env" {
		ctx.logger().Warn("TOD_TOKEN is still set in the environment")
	}
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, map[string]any{
			"profile": ctx.Profile,
			"removed": true,
		}, output.Meta{})
	}
	fmt.Fprintf(ctx.Stdout, "removed token for profile %q\n", ctx.Profile)
	return nil
}
