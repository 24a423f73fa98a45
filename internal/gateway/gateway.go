// ABOUTME: Gateway orchestrator wiring config, store, advisors, and HTTP server.
// ABOUTME: Owns the server lifecycle from listener setup to graceful shutdown.

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/positivity/advisor-gateway/internal/advisor"
	"github.com/positivity/advisor-gateway/internal/agents"
	"github.com/positivity/advisor-gateway/internal/auth"
	"github.com/positivity/advisor-gateway/internal/config"
	"github.com/positivity/advisor-gateway/internal/console"
	"github.com/positivity/advisor-gateway/internal/dedupe"
	"github.com/positivity/advisor-gateway/internal/store"
)

// sessionPruneInterval is how often idle session contexts are swept.
const sessionPruneInterval = 5 * time.Minute

// Retry window for consultations carrying a request id.
const (
	dedupeWindow     = 10 * time.Minute
	dedupeMaxEntries = 10000
)

// Gateway coordinates the advisor registry, persistence, and the HTTP API.
type Gateway struct {
	config     *config.Config
	manager    *advisor.Manager
	store      store.Store
	verifier   auth.TokenVerifier
	jwt        *auth.JWTVerifier
	httpServer *http.Server
	logger     *slog.Logger

	// dedupe suppresses retried consultations that carry a request id
	dedupe *dedupe.Ledger

	// serverID identifies this gateway instance
	serverID string
}

// initStore creates a store from config, honoring the ADVISOR_DB_PATH
// environment override.
func initStore(cfg *config.Config) (store.Store, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("ADVISOR_DB_PATH"); envPath != "" {
		dbPath = envPath
	}
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return s, nil
}

// New assembles a Gateway from config: store, token verifier, advisor
// manager with the default advisor set, and the HTTP routes.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gateway")

	st, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		config:   cfg,
		store:    st,
		logger:   logger,
		serverID: generateServerID(),
		dedupe:   dedupe.NewLedger(dedupeWindow, dedupeMaxEntries),
	}

	// Auth is required only when a JWT secret is configured. Without one
	// the manager gates on token presence alone.
	opts := []advisor.Option{
		advisor.WithRecorder(st),
		advisor.WithSessionTTL(cfg.Sessions.TTL),
	}
	if cfg.Auth.JWTSecret != "" {
		g.jwt = auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		g.verifier = g.jwt
		opts = append(opts, advisor.WithVerifier(g.verifier))
	} else {
		logger.Warn("no JWT secret configured; accepting any bearer token")
	}

	g.manager = advisor.NewManager(logger, opts...)
	if err := agents.RegisterDefaults(g.manager); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to register advisors: %w", err)
	}

	mux := http.NewServeMux()

	// Health endpoints are always unauthenticated
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc("/health/ready", g.handleReady)

	g.registerAPIRoutes(mux)

	if cfg.Console.Enabled {
		c := console.New(st, g.manager, logger)
		// The console shows the same history the admin API gates.
		if g.verifier != nil {
			c.RegisterRoutes(mux, auth.HTTPAuthMiddleware(g.verifier), auth.RequireAdminHTTP())
		} else {
			c.RegisterRoutes(mux)
		}
	}

	g.httpServer = &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return g, nil
}

// Manager exposes the advisor registry, used by the MCP surface and tests.
func (g *Gateway) Manager() *advisor.Manager { return g.manager }

// Store exposes the persistence layer.
func (g *Gateway) Store() store.Store { return g.store }

// TokenGenerator returns the JWT verifier when auth is configured, nil
// otherwise. Used by the token subcommand to mint credentials.
func (g *Gateway) TokenGenerator() *auth.JWTVerifier { return g.jwt }

// registerAPIRoutes wires the API endpoints, wrapping them in auth
// middleware when a verifier is configured.
func (g *Gateway) registerAPIRoutes(mux *http.ServeMux) {
	authed := func(h http.Handler) http.Handler { return h }
	if g.verifier != nil {
		authed = auth.HTTPAuthMiddleware(g.verifier)
	}
	admin := auth.RequireAdminHTTP()

	mux.Handle("/api/consult", authed(http.HandlerFunc(g.handleConsult)))
	mux.Handle("/api/agents", authed(http.HandlerFunc(g.handleListAgents)))
	mux.Handle("/api/consultations", authed(admin(http.HandlerFunc(g.handleListConsultations))))
	mux.Handle("/api/audit", authed(admin(http.HandlerFunc(g.handleListAudit))))

	if g.verifier == nil {
		g.logger.Info("API routes registered without authentication")
	}
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once at least one advisor is registered.
func (g *Gateway) handleReady(w http.ResponseWriter, _ *http.Request) {
	infos := g.manager.List()
	if len(infos) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no advisors registered"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d advisors)", len(infos))
}

// Run serves HTTP and prunes idle session contexts until the context is
// canceled or the server fails, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", g.httpServer.Addr, err)
	}
	g.logger.Info("gateway listening", "addr", ln.Addr().String(), "server_id", g.serverID)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp, grpCtx := errgroup.WithContext(runCtx)
	grp.Go(func() error {
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		ticker := time.NewTicker(sessionPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-grpCtx.Done():
				return nil
			case <-ticker.C:
				if n := g.manager.PruneSessions(); n > 0 {
					g.logger.Debug("live sessions after prune", "count", n)
				}
			}
		}
	})

	<-grpCtx.Done()
	g.logger.Info("shutdown signal received")

	shutdownErr := g.gracefulShutdown()
	cancel()
	if err := grp.Wait(); err != nil {
		return err
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.dedupe.Close()
	var errs []error
	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	return errors.Join(errs...)
}

// generateServerID creates a unique identifier for this gateway instance.
func generateServerID() string {
	return fmt.Sprintf("advisor-gateway-%d", time.Now().UnixNano()%1000000)
}
