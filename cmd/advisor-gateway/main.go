// ABOUTME: Entry point for the advisor-gateway consultation server
// ABOUTME: Serves domain advisors over HTTP and MCP with token auth

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/positivity/advisor-gateway/internal/auth"
	"github.com/positivity/advisor-gateway/internal/config"
	"github.com/positivity/advisor-gateway/internal/gateway"
	"github.com/positivity/advisor-gateway/internal/mcpserver"
	"github.com/positivity/advisor-gateway/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
           _       _                                 _
  __ _  __| |_   _(_)___  ___  _ __      __ _  __ _| |_ _____      ____ _ _   _
 / _' |/ _' \ \ / / / __|/ _ \| '__|____/ _' |/ _' | __/ _ \ \ /\ / / _' | | | |
| (_| | (_| |\ V /| \__ \ (_) | | |_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
 \__,_|\__,_| \_/ |_|___/\___/|_|       \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
                                        |___/                             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: ADVISOR_CONFIG env var > XDG_CONFIG_HOME/advisor/gateway.yaml > ~/.config/advisor/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ADVISOR_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "advisor", "gateway.yaml")
}

// getDataPath returns the path to the advisor data directory.
// Priority: XDG_DATA_HOME/advisor > ~/.local/share/advisor
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "advisor")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: advisor-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                    Start the gateway server")
		fmt.Println("  mcp                      Start the MCP server on stdio")
		fmt.Println("  init                     Create a new config file interactively")
		fmt.Println("  bootstrap                Create config with secret and mint an admin token")
		fmt.Println("  token --subject WHO      Mint a token (--roles a,b --ttl 720h)")
		fmt.Println("  health                   Check gateway health")
		fmt.Println("  agents                   List registered advisors")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "mcp":
		err = runMCP()
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap()
	case "token":
		err = runToken()
	case "health":
		err = runHealth(ctx)
	case "agents":
		err = runAgents(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	// Startup info
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:  %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:    %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("DB:      %s\n", cfg.Database.Path)
	if cfg.Console.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Console: http://%s/console\n", cfg.Server.HTTPAddr)
	}
	if cfg.Auth.JWTSecret == "" {
		yellow.Println("    ! auth disabled (no jwt_secret configured)")
	}

	fmt.Println()

	logger.Info("starting advisor-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	// Create and run gateway
	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

// runMCP serves the advisor tools over stdio. Logs go to stderr so the
// protocol stream on stdout stays clean.
func runMCP() error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MCP.Enabled {
		return fmt.Errorf("mcp is disabled in %s", getConfigPath())
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	// The MCP surface is process-local; mint a short-lived service token
	// when auth is configured so consultations pass verification.
	serviceToken := "mcp-local"
	if jwt := gw.TokenGenerator(); jwt != nil {
		serviceToken, err = jwt.Generate(&auth.Claims{
			Subject:     "mcp-service",
			Roles:       []string{"service"},
			ServiceID:   "advisor-gateway-mcp",
			ServiceType: "mcp",
		}, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("minting service token: %w", err)
		}
	}

	s := mcpserver.New(gw.Manager(), serviceToken)
	return mcpserver.ServeStdio(s)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func runAgents(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/api/agents", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	// Attach the saved token when one exists
	tokenPath := filepath.Join(filepath.Dir(getConfigPath()), "token")
	if tokenBytes, err := os.ReadFile(tokenPath); err == nil {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(string(tokenBytes)))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("agents check failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing advisors failed: status %d: %s", resp.StatusCode, string(body))
	}

	fmt.Println(string(body))
	return nil
}

// runToken mints a JWT for the given subject and roles using the configured
// secret. Supports "--flag value" and "--flag=value" formats.
func runToken() error {
	var subject, rolesRaw, ttlRaw string
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--subject" || arg == "-s":
			if i+1 >= len(args) {
				return fmt.Errorf("--subject requires a value")
			}
			subject = args[i+1]
			i++
		case strings.HasPrefix(arg, "--subject="):
			subject = strings.TrimPrefix(arg, "--subject=")
		case arg == "--roles" || arg == "-r":
			if i+1 >= len(args) {
				return fmt.Errorf("--roles requires a value")
			}
			rolesRaw = args[i+1]
			i++
		case strings.HasPrefix(arg, "--roles="):
			rolesRaw = strings.TrimPrefix(arg, "--roles=")
		case arg == "--ttl":
			if i+1 >= len(args) {
				return fmt.Errorf("--ttl requires a value")
			}
			ttlRaw = args[i+1]
			i++
		case strings.HasPrefix(arg, "--ttl="):
			ttlRaw = strings.TrimPrefix(arg, "--ttl=")
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			return fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("--subject flag is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt_secret not configured in %s", getConfigPath())
	}

	ttl := cfg.Auth.TokenTTL
	if ttlRaw != "" {
		ttl, err = time.ParseDuration(ttlRaw)
		if err != nil {
			return fmt.Errorf("invalid --ttl: %w", err)
		}
	}

	var roles []string
	for _, r := range strings.Split(rolesRaw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}

	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	token, err := verifier.Generate(&auth.Claims{Subject: subject, Roles: roles}, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}
	if err := auditTokenIssued(cfg, subject, roles, ttl); err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

// auditTokenIssued records a token_issued entry in the configured store so
// minted credentials show up in the audit trail.
func auditTokenIssued(cfg *config.Config, subject string, roles []string, ttl time.Duration) error {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("ADVISOR_DB_PATH"); envPath != "" {
		dbPath = envPath
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store for audit: %w", err)
	}
	defer st.Close()

	err = st.AppendAudit(context.Background(), &store.AuditEntry{
		UserID:  subject,
		Action:  store.AuditTokenIssued,
		Success: true,
		Detail: map[string]any{
			"roles": strings.Join(roles, ","),
			"ttl":   ttl.String(),
		},
	})
	if err != nil {
		return fmt.Errorf("auditing issued token: %w", err)
	}
	return nil
}

// runBootstrap performs first-time setup:
// 1. Creates the config file with a random JWT secret (if not exists)
// 2. Mints an admin token and saves it next to the config
func runBootstrap() error {
	configPath := getConfigPath()
	dataPath := getDataPath()
	dbPath := filepath.Join(dataPath, "gateway.db")

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	var cfg *config.Config
	var jwtSecret string

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Generate random JWT secret
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return fmt.Errorf("generating JWT secret: %w", err)
		}
		jwtSecret = base64.StdEncoding.EncodeToString(secretBytes)

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.MkdirAll(dataPath, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		configContent := fmt.Sprintf(`# advisor-gateway configuration
# Generated by advisor-gateway bootstrap

server:
  http_addr: "localhost:8080"

database:
  path: "%s"

auth:
  jwt_secret: "%s"
  token_ttl: "720h"

sessions:
  ttl: "30m"

mcp:
  enabled: true

console:
  enabled: true

logging:
  level: "info"
  format: "text"
`, dbPath, jwtSecret)

		if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		green.Printf("  ✓ Created config: %s\n", configPath)

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("jwt_secret not configured in %s (required for bootstrap)", configPath)
		}
		jwtSecret = cfg.Auth.JWTSecret

		cyan.Printf("  Using existing config: %s\n", configPath)
	}

	// Mint the admin token
	verifier := auth.NewJWTVerifier([]byte(jwtSecret))
	expiresAt := time.Now().Add(cfg.Auth.TokenTTL).UTC()
	token, err := verifier.Generate(&auth.Claims{Subject: "admin", Roles: []string{"admin"}}, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	tokenPath := filepath.Join(filepath.Dir(configPath), "token")
	if err := os.WriteFile(tokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := auditTokenIssued(cfg, "admin", []string{"admin"}, cfg.Auth.TokenTTL); err != nil {
		return err
	}

	green.Printf("  ✓ Saved token: %s\n", tokenPath)

	fmt.Println()
	green.Println("  Bootstrap complete!")
	fmt.Println()
	fmt.Printf("  Subject: admin\n")
	fmt.Printf("  Roles:   admin\n")
	fmt.Printf("  Token:   %s (expires %s)\n", tokenPath, expiresAt.Format("Jan 02, 2006"))
	fmt.Println()

	yellow.Println("  Ready to go:")
	fmt.Println("    advisor-gateway serve    # start the gateway")
	fmt.Println("    advisor-gateway agents   # list advisors")
	fmt.Println()

	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("advisor-gateway configuration setup")
	fmt.Println("===================================")
	fmt.Println()

	defaultConfigPath := getConfigPath()
	defaultDbPath := filepath.Join(getDataPath(), "gateway.db")

	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")

	fmt.Println("\n--- Database Configuration ---")
	dbPath := prompt(reader, "SQLite database path", defaultDbPath)

	fmt.Println("\n--- Auth Configuration ---")
	jwtSecret := prompt(reader, "JWT secret (leave empty to disable auth)", "")

	fmt.Println("\n--- Console Configuration ---")
	consoleEnabled := prompt(reader, "Enable web console?", "yes")

	content := fmt.Sprintf(`# advisor-gateway configuration

server:
  http_addr: "%s"

database:
  path: "%s"

auth:
  jwt_secret: "%s"
  token_ttl: "720h"

sessions:
  ttl: "30m"

console:
  enabled: %t

logging:
  level: "info"
  format: "text"
`, httpAddr, dbPath, jwtSecret,
		strings.ToLower(consoleEnabled) == "yes" || strings.ToLower(consoleEnabled) == "y")

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nWrote %s\n", outputFile)
	return nil
}

func prompt(reader *bufio.Reader, question, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", question, defaultValue)
	} else {
		fmt.Printf("%s: ", question)
	}

	answer, err := reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultValue
	}
	return answer
}
