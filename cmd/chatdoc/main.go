package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/chatdoc"
	"github.com/fwojciec/chatdoc/fernet"
	cdfs "github.com/fwojciec/chatdoc/fs"
	"github.com/fwojciec/chatdoc/gemini"
	cdhtml "github.com/fwojciec/chatdoc/html"
	cdhttp "github.com/fwojciec/chatdoc/http"
	"github.com/fwojciec/chatdoc/pdf"
	cdslog "github.com/fwojciec/chatdoc/slog"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When set they replace the ones
	// built from flags.
	Decrypter chatdoc.Decrypter
	Documents chatdoc.DocumentReader
	Generator chatdoc.Generator
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("chatdoc"),
		kong.Description("Document chat assistant with an encrypted CURP directory."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'chatdoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if deps.Grammar, err = chatdoc.ParseGrammar(cli.Grammar); err != nil {
		return err
	}

	command := strings.Fields(kongCtx.Command())[0]
	switch command {
	case "serve":
		deps.Loader = m.newLoader(deps, cli.Serve.DirectoryFlags)
		m.wireDocument(deps, cli.Serve.DocumentFlags, cli.Verbose)
	case "search":
		deps.Loader = m.newLoader(deps, cli.Search.DirectoryFlags)
	case "ask":
		m.wireDocument(deps, cli.Ask.DocumentFlags, cli.Verbose)
	}

	return kongCtx.Run(deps)
}

// newLoader builds the directory loader. Configuration problems are logged
// and leave the loader without a decrypter, which yields an empty directory.
func (m *Main) newLoader(deps *Dependencies, flags DirectoryFlags) *chatdoc.DirectoryLoader {
	ciphertext := []byte(flags.EncryptedData)
	if len(ciphertext) == 0 && flags.DirectoryFile != "" {
		data, err := os.ReadFile(flags.DirectoryFile)
		if err != nil {
			deps.Logger.Warn("cannot read directory file", "path", flags.DirectoryFile, "err", err)
		}
		ciphertext = data
	}

	decrypter := m.Decrypter
	if decrypter == nil && flags.EncryptionKey != "" {
		cipher, err := fernet.NewCipher(flags.EncryptionKey)
		if err != nil {
			deps.Logger.Warn("invalid encryption key", "code", chatdoc.ErrorCode(err))
		} else {
			decrypter = cipher
		}
	}

	return chatdoc.NewDirectoryLoader(decrypter, ciphertext, deps.Grammar, deps.Logger)
}

// wireDocument sets the document reader and, when an API key is present,
// the model generator. Prompt sizes are only counted for debug logging.
func (m *Main) wireDocument(deps *Dependencies, flags DocumentFlags, verbose bool) {
	deps.Documents = m.Documents
	if deps.Documents == nil {
		deps.Documents = cdslog.NewLoggingDocumentReader(newDocumentRouter(deps.Logger), deps.Logger)
	}

	deps.Generator = m.Generator
	if deps.Generator == nil && flags.APIKey != "" {
		client, err := gemini.NewClient(deps.Ctx, flags.APIKey)
		if err != nil {
			deps.Logger.Error("model client unavailable", "err", chatdoc.ErrorMessage(err))
		} else {
			deps.Generator = cdslog.NewLoggingGenerator(gemini.NewGenerator(client, flags.Model), deps.Logger)
		}
	} else if deps.Generator == nil {
		deps.Logger.Warn("GEMINI_API_KEY not set; chat answers are disabled")
	}

	if !verbose || deps.Generator == nil {
		return
	}
	if tc, err := gemini.NewTokenCounter(flags.Model); err != nil {
		deps.Logger.Debug("token counting disabled", "model", flags.Model, "err", chatdoc.ErrorMessage(err))
	} else {
		deps.TokenCounter = tc
	}
}

// newDocumentRouter registers a reader per supported document type.
func newDocumentRouter(logger *slog.Logger) *cdfs.Router {
	text := cdfs.NewTextReader()
	fetcher := cdslog.NewLoggingFetcher(cdhttp.NewFetcher(), logger)
	web := cdhtml.NewReader(fetcher)

	router := cdfs.NewRouter()
	router.Register(".pdf", pdf.NewReader())
	router.Register(".txt", text)
	router.Register(".md", text)
	router.Register(".html", web)
	router.Register(".htm", web)
	router.RegisterURL(web)
	return router
}
