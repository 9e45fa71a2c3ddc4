package main

import (
	"fmt"

	"github.com/fwojciec/chatdoc"
	cdhttp "github.com/fwojciec/chatdoc/http"
	cdslog "github.com/fwojciec/chatdoc/slog"
	"github.com/fwojciec/chatdoc/sqlite"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s, db, err := c.NewServer(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatdoc.ErrorMessage(err))
		return err
	}
	defer db.Close()

	s.Addr = c.Addr
	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Serving on %s\n", s.URL())

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}

// NewServer loads the directory and document and returns a configured
// server that has not been opened yet, together with the directory store
// the caller must close. Directory and document failures degrade the
// server instead of failing it.
func (c *ServeCmd) NewServer(deps *Dependencies) (*cdhttp.Server, *sqlite.DB, error) {
	var (
		dir    *chatdoc.Directory
		dirErr error
		doc    *chatdoc.Document
		docErr error
	)

	g, gctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		dir, dirErr = deps.Loader.Load(gctx)
		return nil
	})
	g.Go(func() error {
		if c.Document == "" || deps.Documents == nil {
			docErr = chatdoc.Errorf(chatdoc.EDOCUMENT, "no document configured")
			return nil
		}
		doc, docErr = deps.Documents.ReadDocument(gctx, c.Document)
		return nil
	})
	_ = g.Wait()

	if docErr != nil {
		deps.Logger.Error("document unavailable", "source", c.Document, "err", chatdoc.ErrorMessage(docErr))
	}

	db := sqlite.NewDB(c.DB)
	if err := db.Open(); err != nil {
		return nil, nil, chatdoc.Errorf(chatdoc.EINTERNAL, "open directory store: %v", err)
	}
	store := sqlite.NewDirectoryService(db, deps.Grammar)
	if err := store.Replace(deps.Ctx, dir.Entries()); err != nil {
		db.Close()
		return nil, nil, err
	}

	instructions := c.Instructions
	if instructions == "" {
		instructions = chatdoc.DefaultInstructions
	}
	chat := chatdoc.NewChatService(deps.Generator, doc, instructions)
	chat.TokenCounter = deps.TokenCounter
	chat.Logger = deps.Logger

	s := cdhttp.NewServer()
	s.Grammar = deps.Grammar
	s.Directory = cdslog.NewLoggingDirectoryService(store, deps.Logger)
	s.DirectoryEntries = dir.Len()
	s.DirectoryErr = dirErr
	s.Chat = chat
	s.Transcript = chatdoc.NewTranscript(c.Greeting)
	s.DocumentErr = docErr
	s.Branding = cdhttp.Branding{Title: c.Title, Subtitle: c.Subtitle}
	s.Logger = deps.Logger
	if c.ChatRate > 0 {
		s.ChatLimiter = rate.NewLimiter(rate.Limit(c.ChatRate), max(c.ChatBurst, 1))
	}
	return s, db, nil
}
