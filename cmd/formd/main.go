package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"formd/internal/common/fsutil"
	"formd/internal/config"
	"formd/internal/contact"
	"formd/internal/httpapi"
	"formd/internal/linebot"
	"formd/internal/notify"
	"formd/internal/reservation"
	"formd/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Optional config file (.yaml, .json or .toml)")
	addr := flag.String("addr", "", "HTTP listen address, e.g. :8080 (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (overrides config)")
	flag.Parse()

	// Precedence: flags > environment > config file
	var cfg config.Config
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = c
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatalf("failed to read environment: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if v := splitCSV(*corsOrigins); len(v) > 0 {
		cfg.CORSOrigins = v
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "~/.formd/formd.db"
	}

	logger := newLogger(cfg.LogLevel)

	storagePath, err := fsutil.ExpandHome(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to resolve db path: %v", err)
	}
	if err := fsutil.EnsureParentDir(storagePath); err != nil {
		log.Fatalf("failed to prepare db directory: %v", err)
	}
	store, err := sqlite.Open(storagePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	// Owner notifications go to LINE when credentials allow it, otherwise to
	// the log. The queue decouples delivery from request handling.
	lineEnabled := cfg.LineChannelSecret != "" && cfg.LineChannelToken != ""
	var replier httpapi.Replier
	var sink notify.Sink = notify.LogSink{Log: logger}
	if lineEnabled {
		lc := linebot.NewClient(cfg.LineChannelToken)
		replier = lc
		if cfg.LineOwnerID != "" {
			sink = linebot.PushSink{Client: lc, To: cfg.LineOwnerID}
		}
	} else {
		logger.Warn().Msg("LINE credentials not set; webhook and push notifications disabled")
	}
	queue := notify.NewQueue(sink, 64, logger)
	queue.Start()

	contactSvc := contact.NewService(store, queue)
	resvSvc, err := reservation.New(reservation.Config{
		Store:    store,
		Notifier: queue,
		Settings: reservation.Settings{
			OpenTime:    cfg.OpenTime,
			CloseTime:   cfg.CloseTime,
			SlotMinutes: cfg.SlotMinutes,
			Capacity:    cfg.SlotCapacity,
			MinLead:     time.Duration(cfg.MinLeadMinutes) * time.Minute,
		},
		Log: &logger,
	})
	if err != nil {
		log.Fatalf("invalid reservation settings: %v", err)
	}

	httpapi.SetLogger(logger)
	if cfg.MaxBodyMB > 0 {
		httpapi.SetMaxBodyBytes(int64(cfg.MaxBodyMB) << 20)
	}
	if len(cfg.CORSOrigins) > 0 {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)
	}
	baseCtx, baseCancel := context.WithCancel(context.Background())
	defer baseCancel()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(httpapi.Config{
		Contact:     contactSvc,
		Reservation: resvSvc,
		Replier:     replier,
		LineSecret:  cfg.LineChannelSecret,
		Ready: func() bool {
			return store.Ping(context.Background()) == nil
		},
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("db", storagePath).Bool("line", lineEnabled).Msg("formd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	baseCancel()
	queue.Stop()
	if err := store.Close(); err != nil {
		logger.Error().Err(err).Msg("store close error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			log.Fatalf("invalid log level %q: %v", level, err)
		}
		lvl = parsed
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

// splitCSV splits a comma-separated flag value, dropping empty entries.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
