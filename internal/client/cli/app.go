package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkproof/internal/client/client"
	"github.com/dmitrijs2005/linkproof/internal/client/config"
	"github.com/dmitrijs2005/linkproof/internal/client/services"
	"github.com/dmitrijs2005/linkproof/internal/filex"
	"github.com/dmitrijs2005/linkproof/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 15 * time.Second

type App struct {
	config         *config.Config
	authService    services.AuthService
	receiptService services.ReceiptService
	local          io.Closer
	logger         logging.Logger
	reader         *bufio.Reader
	out            io.Writer

	mu       sync.Mutex
	userName string
	mode     Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := filex.EnsureParentDir(c.LocalDBPath); err != nil {
		return nil, err
	}
	repos, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewLinkProofClient(c.ServerEndpointAddr)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		config:         c,
		authService:    services.NewAuthService(apiClient, repos.Session, repos.History),
		receiptService: services.NewReceiptService(apiClient, repos.Session, repos.History, c.MaxFileSize),
		local:          repos,
		logger:         logger,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}, nil
}

// Run resumes a stored session, starts the connectivity watcher and blocks in
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	fmt.Fprintln(a.out, "Welcome to LinkProof CLI (type 'help' for commands)")
	a.resume(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close(ctx context.Context) {
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Warn(ctx, "closing connection", "error", err)
	}
	if a.local != nil {
		if err := a.local.Close(); err != nil {
			a.logger.Warn(ctx, "closing local database", "error", err)
		}
	}
}

// resume logs the user back in from the stored session.
func (a *App) resume(ctx context.Context) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.authService.Resume(ctx)
	switch {
	case err == nil:
		a.setUser(user)
		a.setMode(ModeOnline)
		fmt.Fprintf(a.out, "Logged in as %s\n", user)
	case errors.Is(err, client.ErrLocalDataNotAvailable):
		a.setMode(ModeOnline)
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, log in again once it is back")
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Session expired, please log in")
	default:
		a.logger.Warn(ctx, "resuming session", "error", err)
	}
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != "" && a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Warn(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
