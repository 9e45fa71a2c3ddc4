package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/chatdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Grammar      chatdoc.Grammar
	Loader       *chatdoc.DirectoryLoader
	Documents    chatdoc.DocumentReader
	Generator    chatdoc.Generator
	TokenCounter chatdoc.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Grammar string `name:"curp-grammar" default:"strict" enum:"strict,loose" env:"CHATDOC_CURP_GRAMMAR" help:"CURP grammar: strict (numeric check digit) or loose"`

	Serve  ServeCmd  `cmd:"" help:"Serve the assistant web page"`
	Search SearchCmd `cmd:"" help:"Look up the email for one or more CURPs"`
	Ask    AskCmd    `cmd:"" help:"Ask a single question about the document"`
	Seal   SealCmd   `cmd:"" help:"Encrypt a directory file for deployment"`
}

// DirectoryFlags locate and unlock the encrypted directory.
type DirectoryFlags struct {
	EncryptionKey string `name:"encryption-key" env:"CHATDOC_ENCRYPTION_KEY" help:"Fernet key for the directory (prefer the environment variable)"`
	EncryptedData string `name:"encrypted-data" env:"CHATDOC_ENCRYPTED_DATA" help:"Encrypted directory token"`
	DirectoryFile string `name:"directory-file" type:"path" env:"CHATDOC_DIRECTORY_FILE" help:"File holding the encrypted directory token"`
}

// DocumentFlags configure the document and the model that answers about it.
type DocumentFlags struct {
	Document     string `name:"document" env:"CHATDOC_DOCUMENT" help:"Path or URL of the document (.pdf, .txt, .md, .html)"`
	APIKey       string `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key (prefer the environment variable)"`
	Model        string `name:"model" env:"CHATDOC_MODEL" default:"gemini-2.5-flash" help:"Gemini model name"`
	Instructions string `name:"instructions" env:"CHATDOC_INSTRUCTIONS" help:"Answering instructions prepended to every prompt"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	DirectoryFlags
	DocumentFlags

	Addr      string  `default:"127.0.0.1:8501" env:"CHATDOC_ADDR" help:"Listen address"`
	DB        string  `name:"db" default:":memory:" env:"CHATDOC_DB" help:"SQLite database path for the directory store"`
	ChatRate  float64 `name:"chat-rate" default:"1" help:"Chat turns allowed per second (0 disables throttling)"`
	ChatBurst int     `name:"chat-burst" default:"3" help:"Chat turns allowed in a burst"`
	Title     string  `default:"ChatDoc + CURP Finder" env:"CHATDOC_TITLE" help:"Page title"`
	Subtitle  string  `default:"Sistema integrado de consulta documental" env:"CHATDOC_SUBTITLE" help:"Page subtitle"`
	Greeting  string  `default:"¡Hola! Pregúntame lo que quieras sobre el documento." env:"CHATDOC_GREETING" help:"First assistant message (empty for none)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	DirectoryFlags

	Codes []string `arg:"" name:"curp" help:"CURPs to look up"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	DocumentFlags

	Question string `arg:"" help:"Question to ask about the document"`
}

// SealCmd is the "seal" subcommand.
type SealCmd struct {
	Input  string `arg:"" optional:"" type:"existingfile" help:"JSON directory file (omit to seal a sample directory)"`
	Key    string `env:"CHATDOC_ENCRYPTION_KEY" help:"Fernet key to encrypt with (generated when empty)"`
	Output string `short:"o" type:"path" help:"Write the token to this file instead of stdout"`
}
