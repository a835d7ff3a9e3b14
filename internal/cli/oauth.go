package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultOAuthAuthorizeURL = "https://todoist.com/oauth/authorize"
	defaultOAuthTokenURL     = "https://todoist.com/oauth/access_token"
	defaultOAuthListenAddr   = "127.0.0.1:8765"
	oauthScope               = "data:read_write,data:delete"
	oauthCallbackTimeout     = 3 * time.Minute
)

type oauthOptions struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	ListenAddr   string
	NoBrowser    bool
}

type oauthConfig struct {
	OAuth2     *oauth2.Config
	ListenAddr string
	NoBrowser  bool
}

func envOr(value, key, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	if env := strings.TrimSpace(os.Getenv(key)); env != "" {
		return env
	}
	return fallback
}

func buildOAuthConfig(opts oauthOptions) (oauthConfig, error) {
	clientID := envOr(opts.ClientID, "TOD_OAUTH_CLIENT_ID", "")
	if clientID == "" {
		return oauthConfig{}, errors.New("missing OAuth client id; set --client-id or TOD_OAUTH_CLIENT_ID")
	}
	listen := envOr(opts.ListenAddr, "TOD_OAUTH_LISTEN", defaultOAuthListenAddr)
	return oauthConfig{
		OAuth2: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: envOr(opts.ClientSecret, "TOD_OAUTH_CLIENT_SECRET", ""),
			Endpoint: oauth2.Endpoint{
				AuthURL:   envOr(opts.AuthorizeURL, "TOD_OAUTH_AUTHORIZE_URL", defaultOAuthAuthorizeURL),
				TokenURL:  envOr(opts.TokenURL, "TOD_OAUTH_TOKEN_URL", defaultOAuthTokenURL),
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: "http://" + listen + "/callback",
			Scopes:      []string{oauthScope},
		},
		ListenAddr: listen,
		NoBrowser:  opts.NoBrowser,
	}, nil
}

func openOAuthBrowser(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}

type oauthResult struct {
	code string
	err  error
}

func waitForOAuthCode(ctx context.Context, cfg oauthConfig, expectedState string, timeout time.Duration) (string, error) {
	redirect, err := url.Parse(cfg.OAuth2.RedirectURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URI: %w", err)
	}
	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/callback"
	}
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return "", fmt.Errorf("listen for OAuth callback: %w", err)
	}
	defer ln.Close()

	results := make(chan oauthResult, 1)
	send := func(r oauthResult) {
		select {
		case results <- r:
		default:
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "Authorization failed: "+q.Get("error"), http.StatusBadRequest)
			send(oauthResult{err: fmt.Errorf("oauth authorization failed: %s", q.Get("error"))})
		case q.Get("state") == "" || q.Get("state") != expectedState:
			http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
			send(oauthResult{err: errors.New("invalid oauth state")})
		case q.Get("code") == "":
			http.Error(w, "Missing OAuth code", http.StatusBadRequest)
			send(oauthResult{err: errors.New("missing oauth code in callback")})
		default:
			_, _ = io.WriteString(w, "tod is authorized. You can close this tab.")
			send(oauthResult{code: q.Get("code")})
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		_ = server.Serve(ln)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case <-waitCtx.Done():
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return "", errors.New("oauth callback timed out")
		}
		return "", waitCtx.Err()
	case result := <-results:
		return result.code, result.err
	}
}

func exchangeOAuthToken(ctx context.Context, cfg oauthConfig, code, verifier string) (string, error) {
	token, err := cfg.OAuth2.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("oauth token exchange: %w", err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return "", errors.New("oauth token exchange returned empty access_token")
	}
	return token.AccessToken, nil
}
