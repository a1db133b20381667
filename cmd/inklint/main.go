// Command inklint runs the grammar-check HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"golang.org/x/sync/errgroup"

	"github.com/inklint/inklint/internal/checker"
	"github.com/inklint/inklint/internal/config"
	"github.com/inklint/inklint/internal/health"
	"github.com/inklint/inklint/internal/observe"
	"github.com/inklint/inklint/internal/server"
	"github.com/inklint/inklint/internal/session"
	"github.com/inklint/inklint/pkg/provider/grammar/anyllm"
	"github.com/inklint/inklint/pkg/provider/grammar/gemini"
	"github.com/inklint/inklint/pkg/provider/grammar/heuristic"
	"github.com/inklint/inklint/pkg/provider/grammar/openai"
)

const defaultListenAddr = ":3001"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "inklint: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "inklint: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	listenAddr := cfg.Server.ListenAddr
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	slog.Info("inklint starting",
		"config", *configPath,
		"listen_addr", listenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "inklint"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	metrics := observe.DefaultMetrics()

	// ── Provider chain ────────────────────────────────────────────────────────
	chain, err := buildChain(cfg)
	if err != nil {
		slog.Error("failed to build provider chain", "err", err)
		return 1
	}

	agg := session.New()
	orc := checker.New(chain, checker.WithMetrics(metrics), checker.WithRecorder(agg))

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := server.New(server.Config{
		MaxBodyBytes:      cfg.Limits.MaxBodyBytes,
		RequestsPerMinute: cfg.Server.RateLimit.RequestsPerMinute,
		Services:          serviceAvailability(cfg),
	}, orc, agg, metrics)

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printStartupSummary(cfg, listenAddr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server ready — press Ctrl+C to shut down", "addr", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// buildChain instantiates the configured provider slots and the local
// heuristic last resort.
func buildChain(cfg *config.Config) (checker.Config, error) {
	chain := checker.Config{MaxTextLen: cfg.Limits.MaxTextLen}

	primary, err := buildEntry(cfg.Providers.Primary)
	if err != nil {
		return checker.Config{}, fmt.Errorf("primary: %w", err)
	}
	chain.Primary = primary

	secondary, err := buildEntry(cfg.Providers.Secondary)
	if err != nil {
		return checker.Config{}, fmt.Errorf("secondary: %w", err)
	}
	chain.Secondary = secondary

	var heurOpts []heuristic.Option
	if cfg.Heuristic.SimulateLatency {
		heurOpts = append(heurOpts, heuristic.WithSimulatedLatency(time.Second))
	}
	chain.Heuristic = heuristic.New(heurOpts...)

	for _, e := range []checker.Entry{chain.Primary, chain.Secondary} {
		if e.Name != "" {
			slog.Info("provider configured", "name", e.Name)
		}
	}
	return chain, nil
}

// buildEntry constructs one checker for a provider slot. An unconfigured
// slot yields a zero Entry.
func buildEntry(e config.ProviderEntry) (checker.Entry, error) {
	if !e.Configured() {
		return checker.Entry{}, nil
	}

	name := strings.ToLower(e.Name)
	switch name {
	case "openai":
		var opts []openai.Option
		if e.Model != "" {
			opts = append(opts, openai.WithModel(e.Model))
		}
		if e.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(e.BaseURL))
		}
		return checker.Entry{Name: name, Checker: openai.New(e.APIKey, opts...)}, nil

	case "gemini":
		var opts []gemini.Option
		if e.Model != "" {
			opts = append(opts, gemini.WithModel(e.Model))
		}
		return checker.Entry{Name: name, Checker: gemini.New(e.APIKey, opts...)}, nil

	default:
		// anthropic, ollama, deepseek, mistral, groq via any-llm-go.
		model := e.Model
		if model == "" {
			return checker.Entry{}, fmt.Errorf("provider %q requires an explicit model", name)
		}
		var extra []anyllmlib.Option
		if e.BaseURL != "" {
			extra = append(extra, anyllmlib.WithBaseURL(e.BaseURL))
		}
		c, err := anyllm.New(name, model, e.APIKey, extra...)
		if err != nil {
			return checker.Entry{}, err
		}
		return checker.Entry{Name: name, Checker: c}, nil
	}
}

// serviceAvailability reports which first-class backends have credentials,
// for the health endpoint.
func serviceAvailability(cfg *config.Config) health.Services {
	var svcs health.Services
	for _, e := range []config.ProviderEntry{cfg.Providers.Primary, cfg.Providers.Secondary} {
		if !e.Configured() || e.APIKey == "" {
			continue
		}
		switch strings.ToLower(e.Name) {
		case "openai":
			svcs.OpenAI = true
		case "gemini":
			svcs.Gemini = true
		}
	}
	return svcs
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, listenAddr string) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║         inklint — startup summary     ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printProvider("Primary", cfg.Providers.Primary.Name, cfg.Providers.Primary.Model)
	printProvider("Secondary", cfg.Providers.Secondary.Name, cfg.Providers.Secondary.Model)
	if cfg.Heuristic.SimulateLatency {
		fmt.Printf("║  Heuristic       : %-19s ║\n", "1s simulated lag")
	} else {
		fmt.Printf("║  Heuristic       : %-19s ║\n", "enabled")
	}
	fmt.Printf("║  Listen addr     : %-19s ║\n", listenAddr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
