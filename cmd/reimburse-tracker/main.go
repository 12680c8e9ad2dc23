package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/reimburse-tracker/internal/receipt"
	"github.com/zombor/reimburse-tracker/internal/reimbursement"
	"github.com/zombor/reimburse-tracker/internal/storage"
	"github.com/zombor/reimburse-tracker/internal/toast"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("reimburse-tracker")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		storeType   = fs.StringLong("store", "bolt", "Store type: 'bolt', 'file' or 'memory'")
		dbPath      = fs.StringLong("db", "reimburse-tracker.db", "Database file path (bolt store)")
		storageDir  = fs.StringLong("storage-dir", "./data", "Storage directory path (file store)")
		quota       = fs.IntLong("quota", storage.DefaultQuota, "Maximum stored value size in bytes, 0 for unlimited")
		delayList   = fs.DurationLong("delay-list", reimbursement.DefaultDelays.List, "Artificial latency before listing")
		delayGet    = fs.DurationLong("delay-get", reimbursement.DefaultDelays.Get, "Artificial latency before a lookup")
		delayCreate = fs.DurationLong("delay-create", reimbursement.DefaultDelays.Create, "Artificial latency before creating")
		delayDelete = fs.DurationLong("delay-delete", reimbursement.DefaultDelays.Delete, "Artificial latency before deleting")
		toastLimit  = fs.IntLong("toast-limit", toast.DefaultLimit, "Maximum number of toasts kept")
		toastDelay  = fs.DurationLong("toast-remove-delay", toast.DefaultRemoveDelay, "Delay between dismissing a toast and removing it")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("REIMBURSE_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize storage
	var store storage.Store
	switch *storeType {
	case "bolt":
		slog.Info("Initializing database...", "path", *dbPath)
		db, err := storage.NewBoltStore(*dbPath, int64(*quota))
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	case "file":
		slog.Info("Initializing storage...", "path", *storageDir)
		fileStore, err := storage.NewFileStore(*storageDir, int64(*quota))
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		store = fileStore
	case "memory":
		slog.Info("Using in-memory storage; data is lost on exit")
		store = storage.NewMemoryStore(int64(*quota))
	default:
		slog.Error("Invalid store type", "type", *storeType, "valid", "bolt, file or memory")
		os.Exit(1)
	}

	// Initialize service
	service := reimbursement.NewService(store, reimbursement.Delays{
		List:   *delayList,
		Get:    *delayGet,
		Create: *delayCreate,
		Delete: *delayDelete,
	})
	if err := service.Initialize(); err != nil {
		slog.Error("Failed to seed reimbursements", "error", err)
		os.Exit(1)
	}

	// Notifications go to the log as well as the API
	toasts := toast.NewManager(
		toast.WithLimit(*toastLimit),
		toast.WithRemoveDelay(*toastDelay),
	)
	toasts.Subscribe(newToastLogger().log)

	// Initialize server
	server := reimbursement.NewServer(service, toasts, receipt.NewRegistry())

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "store", *storeType)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}

// toastLogger logs each toast once, when it first appears
type toastLogger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newToastLogger() *toastLogger {
	return &toastLogger{seen: map[string]bool{}}
}

func (l *toastLogger) log(current []toast.Toast) {
	l.mu.Lock()
	defer l.mu.Unlock()

	live := make(map[string]bool, len(current))
	for _, t := range current {
		live[t.ID] = true
		if l.seen[t.ID] {
			continue
		}
		slog.Info("Toast", "id", t.ID, "variant", t.Variant, "title", t.Title, "description", t.Description)
	}
	l.seen = live
}
