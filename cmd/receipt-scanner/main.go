package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/Hongbin10/AI-ReceiptScanner/internal/receipt"
	"github.com/Hongbin10/AI-ReceiptScanner/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("receipt-scanner")
	var (
		port          = fs.IntLong("port", 5001, "HTTP server port")
		dbPath        = fs.StringLong("db", "receipts.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./uploads", "Upload archive directory")
		provider      = fs.StringLong("provider", "openai", "Model provider: 'openai' or 'gemini'")
		openaiKey     = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		openaiBaseURL = fs.StringLong("openai-base-url", "", "OpenAI-compatible API base URL")
		openaiModel   = fs.StringLong("openai-model", "gpt-4o", "OpenAI model name")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		currency      = fs.StringLong("currency", receipt.DefaultCurrency, "Fallback currency code for receipts without one")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.Info("Initializing database...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var scanner scanning.Scanner
	switch *provider {
	case "openai":
		apiKey := *openaiKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("OpenAI API key is required. Set --openai-key flag or OPENAI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing OpenAI scanner...", "model", *openaiModel)
		scanner, err = scanning.NewOpenAI(apiKey, *openaiBaseURL, *openaiModel)
		if err != nil {
			slog.Error("Failed to initialize OpenAI", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid provider", "provider", *provider, "valid", "openai or gemini")
		os.Exit(1)
	}
	defer scanner.Close()

	slog.Info("Initializing upload archive...")
	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize upload archive", "error", err)
		os.Exit(1)
	}

	receiptService := receipt.NewService(db, scanner, store, *currency)
	server := receipt.NewServer(receiptService)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "currency", *currency)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
