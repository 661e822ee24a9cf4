package ghmcp

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	gogithub "github.com/google/go-github/v69/github"
	mcpgithub "github.com/hubgate/github-mcp-server/pkg/github"
	mcplog "github.com/hubgate/github-mcp-server/pkg/log"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// requestTimeout bounds every outbound GitHub API call. Expiry surfaces as a
// timeout error distinct from API failures.
const requestTimeout = 30 * time.Second

// MCPServerConfig contains everything needed to assemble a GitHub MCP server
// instance.
type MCPServerConfig struct {
	// Version of the server, reported to clients and sent as part of the
	// User-Agent on API calls
	Version string

	// GitHub Host to target for API requests (e.g. github.com or
	// a GHES hostname). Empty means github.com.
	Host string

	// GitHub token to authenticate with
	Token string

	// EnabledToolsets is a list of toolsets to enable. "all" enables
	// everything.
	EnabledToolsets []string

	// Whether to expose the dynamic toolset discovery tools
	DynamicToolsets bool

	// Whether to restrict the server to read-only operations
	ReadOnly bool

	// Translator provides translated tool descriptions
	Translator translations.TranslationHelperFunc

	// Logger, when set, records every outbound API exchange
	Logger *logrus.Logger
}

// NewMCPServer builds the MCP server for cfg: REST and GraphQL clients behind
// the rate-limit transport, the toolset group, and tool registration.
func NewMCPServer(cfg MCPServerConfig) (*server.MCPServer, error) {
	apiHost, err := parseAPIHost(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API host: %w", err)
	}

	// Retried attempts go through the logging transport individually, so
	// rate-limit handling wraps it rather than the other way round.
	baseTransport := func() http.RoundTripper {
		if cfg.Logger != nil {
			return mcplog.NewLoggingTransport(http.DefaultTransport, cfg.Logger)
		}
		return http.DefaultTransport
	}

	restClient := gogithub.NewClient(&http.Client{
		Transport: newRateLimitRetryTransport(baseTransport()),
		Timeout:   requestTimeout,
	}).WithAuthToken(cfg.Token)
	restClient.UserAgent = fmt.Sprintf("github-mcp-server/%s", cfg.Version)
	restClient.BaseURL = apiHost.baseRESTURL

	gqlClient := githubv4.NewEnterpriseClient(apiHost.graphqlURL.String(), &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   newRateLimitRetryTransport(baseTransport()),
		},
		Timeout: requestTimeout,
	})

	// When a client introduces itself, fold its identity into the
	// User-Agent so API traffic can be attributed.
	beforeInit := func(_ context.Context, _ any, message *mcp.InitializeRequest) {
		restClient.UserAgent = fmt.Sprintf(
			"github-mcp-server/%s (%s/%s)",
			cfg.Version,
			message.Params.ClientInfo.Name,
			message.Params.ClientInfo.Version,
		)
	}

	hooks := &server.Hooks{
		OnBeforeInitialize: []server.OnBeforeInitializeFunc{beforeInit},
	}

	ghServer := mcpgithub.NewServer(cfg.Version, server.WithHooks(hooks))

	enabledToolsets := cfg.EnabledToolsets
	if len(enabledToolsets) == 0 {
		enabledToolsets = mcpgithub.DefaultTools
	}
	if cfg.DynamicToolsets {
		// With dynamic discovery everything starts disabled and is
		// enabled on demand, so the "all" wildcard must not apply.
		enabledToolsets = slices.DeleteFunc(slices.Clone(enabledToolsets), func(name string) bool {
			return name == "all"
		})
	}

	translator := cfg.Translator
	if translator == nil {
		translator = translations.NullTranslationHelper
	}

	getClient := func(_ context.Context) (*gogithub.Client, error) {
		return restClient, nil
	}
	getGQLClient := func(_ context.Context) (*githubv4.Client, error) {
		return gqlClient, nil
	}

	tsg, err := mcpgithub.InitToolsets(enabledToolsets, cfg.ReadOnly, getClient, getGQLClient, translator)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize toolsets: %w", err)
	}
	tsg.RegisterTools(ghServer)

	if cfg.DynamicToolsets {
		dynamic := mcpgithub.InitDynamicToolset(ghServer, tsg, translator)
		dynamic.RegisterTools(ghServer)
	}

	return ghServer, nil
}

// StdioServerConfig contains the configuration for running the server over
// stdio.
type StdioServerConfig struct {
	// Version of the server
	Version string

	// GitHub Host to target for API requests
	Host string

	// GitHub token to authenticate with
	Token string

	// EnabledToolsets is a list of toolsets to enable
	EnabledToolsets []string

	// Whether to expose the dynamic toolset discovery tools
	DynamicToolsets bool

	// Whether to restrict the server to read-only operations
	ReadOnly bool

	// Whether to dump the translated tool descriptions to a JSON file
	ExportTranslations bool

	// Path to a file to log to. Empty logs to stderr
	LogFilePath string

	// Whether to log the raw JSON-RPC traffic on the stdio channel
	EnableCommandLogging bool
}

// RunStdioServer runs the server over stdin/stdout until the context is
// cancelled by an interrupt or the transport closes. Not concurrency safe.
func RunStdioServer(cfg StdioServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, dumpTranslations := translations.TranslationHelper()

	logrusLogger := logrus.New()
	var apiLogger *logrus.Logger
	if cfg.LogFilePath != "" {
		file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logrusLogger.SetLevel(logrus.DebugLevel)
		logrusLogger.SetOutput(file)
		// API traffic logging is only useful with a file to write to.
		apiLogger = logrusLogger
	}

	ghServer, err := NewMCPServer(MCPServerConfig{
		Version:         cfg.Version,
		Host:            cfg.Host,
		Token:           cfg.Token,
		EnabledToolsets: cfg.EnabledToolsets,
		DynamicToolsets: cfg.DynamicToolsets,
		ReadOnly:        cfg.ReadOnly,
		Translator:      t,
		Logger:          apiLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	stdioServer := server.NewStdioServer(ghServer)
	stdLogger := stdlog.New(logrusLogger.Writer(), "stdioserver", 0)
	stdioServer.SetErrorLogger(stdLogger)

	if cfg.ExportTranslations {
		// Dump the current translation map so users can review and edit it.
		dumpTranslations()
	}

	errC := make(chan error, 1)
	go func() {
		in, out := io.Reader(os.Stdin), io.Writer(os.Stdout)

		if cfg.EnableCommandLogging {
			loggedIO := mcplog.NewIOLogger(in, out, logrusLogger)
			in, out = loggedIO, loggedIO
		}

		errC <- stdioServer.Listen(ctx, in, out)
	}()

	// Output to stderr so this does not corrupt the stdio channel.
	_, _ = fmt.Fprintf(os.Stderr, "GitHub MCP Server running on stdio\n")

	select {
	case <-ctx.Done():
		logrusLogger.Infof("shutting down server...")
	case err := <-errC:
		if err != nil {
			return err
		}
	}

	return nil
}

type apiHost struct {
	baseRESTURL *url.URL
	graphqlURL  *url.URL
}

func newDotcomHost() (apiHost, error) {
	baseRestURL, err := url.Parse("https://api.github.com/")
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse dotcom REST URL: %w", err)
	}

	gqlURL, err := url.Parse("https://api.github.com/graphql")
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse dotcom GraphQL URL: %w", err)
	}

	return apiHost{
		baseRESTURL: baseRestURL,
		graphqlURL:  gqlURL,
	}, nil
}

func newGHESHost(hostname string) (apiHost, error) {
	u, err := url.Parse(hostname)
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse GHES URL: %w", err)
	}

	restURL, err := url.Parse(fmt.Sprintf("%s://%s/api/v3/", u.Scheme, u.Hostname()))
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse GHES REST URL: %w", err)
	}

	gqlURL, err := url.Parse(fmt.Sprintf("%s://%s/api/graphql", u.Scheme, u.Hostname()))
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse GHES GraphQL URL: %w", err)
	}

	return apiHost{
		baseRESTURL: restURL,
		graphqlURL:  gqlURL,
	}, nil
}

// parseAPIHost resolves the REST and GraphQL endpoints for the target host.
// An empty host or github.com targets the public API; anything else is
// treated as a GitHub Enterprise Server deployment, which serves its API
// under /api/v3 and /api/graphql.
func parseAPIHost(s string) (apiHost, error) {
	if s == "" {
		return newDotcomHost()
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return apiHost{}, fmt.Errorf("could not parse host as URL: %s", s)
	}
	if u.Hostname() == "" {
		return apiHost{}, fmt.Errorf("host has no hostname: %s", s)
	}

	switch strings.ToLower(u.Hostname()) {
	case "github.com", "api.github.com", "www.github.com":
		return newDotcomHost()
	default:
		return newGHESHost(s)
	}
}
