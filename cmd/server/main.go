package main

import (
	"chat-core/auth"
	"chat-core/events"
	"chat-core/internal"
	"chat-core/moderation"
	"chat-core/observability"
	"chat-core/presence"
	"chat-core/projection"
	"chat-core/repositories"
	"chat-core/runtime"
	"chat-core/search"
	"chat-core/services"
	"chat-core/sink"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

//go:embed censored/*.txt
var censoredFS embed.FS

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// main is a thin wrapper: run() does the work, main handles the exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components and manages the lifecycle, so every defer
// (database close, index close) executes before the process exits.
func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	maskRune, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB) and search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.NewBlugeIndex(config.BlugeFilepath)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = index.Close()
	}()

	// 3. Moderation dictionaries (embedded, one file per language)
	dictionary, err := moderation.NewLoader(censoredFS).LoadAll("censored")
	if err != nil {
		return exitRuntime, err
	}
	moderator, err := moderation.NewModerator(dictionary.Words, maskRune)
	if err != nil {
		return exitRuntime, err
	}
	logger.Info("Moderation ready", "words", len(dictionary.Words), "languages", dictionary.Languages)

	// 4. Repositories, presence, metrics
	conversations := repositories.NewConversationRepository(db)
	messages := repositories.NewMessageRepository(db, logger)
	users := repositories.NewUserRepository(db)
	leases := repositories.NewLeaseStore(db)
	tracker := presence.NewTracker(leases)
	typing := presence.NewTypingCoordinator(leases, config.TypingTTL)
	metrics := observability.NewMessageMetrics(logger)
	timeline := projection.NewTimeline()

	// 5. Event publisher with its sinks
	publisher := events.NewPublisher(logger, config.EventBufferSize).Add(
		sink.NewBrokerSink(logger),
		sink.NewMetricsSink(metrics),
		sink.NewSearchSink(index),
		timeline,
	).OnDrop(metrics.IncrDropped)

	// 6. Use cases
	chatService := services.NewChatService(conversations, messages, publisher, moderator, index)
	authService := services.NewAuthService(users, auth.NewArgon2Hasher(),
		auth.NewTokenProvider(config.JwtSecret, config.AuthTokenDuration))
	logger.Info("Messaging core ready",
		"chat_service", chatService != nil,
		"auth_service", authService != nil,
		"typing_ttl", config.TypingTTL,
	)

	// 7. Debug inspector over the keyspace
	internal.StartDebugServer(db, config.DebugPort, "/inspect", messageMapper, func() map[string]any {
		snapshot := metrics.Snapshot()
		online, _ := tracker.OnlineUsers()
		typists, _ := typing.ActiveCount()
		return map[string]any{
			"sent":      snapshot.MessagesSent,
			"delivered": snapshot.MessagesDelivered,
			"read":      snapshot.MessagesRead,
			"dropped":   snapshot.EventsDropped,
			"online":    len(online),
			"typing":    typists,
		}
	})
	logger.Info("Debug inspector available", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))

	// 8. Background workers under supervision until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supervisor := runtime.NewSupervisor(logger)
	supervisor.Add(
		publisher,
		observability.NewMetricsListener(logger, metrics, config.MetricInterval),
		observability.NewHeartbeatWorker(logger, config.HeartbeatInterval),
	)
	supervisor.Run(ctx)

	logger.Info("Shutdown complete")
	return exitOK, nil
}

// messageMapper renders message records in the inspector.
func messageMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	var record repositories.MessageRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return row
	}
	row.Type = string(record.Type)
	row.Detail = fmt.Sprintf("[%s] %s", record.Status, record.Content)
	if record.Deleted {
		row.Detail = "(deleted)"
	}
	return row
}
