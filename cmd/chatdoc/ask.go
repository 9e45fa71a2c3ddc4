package main

import (
	"fmt"

	"github.com/fwojciec/chatdoc"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	var doc *chatdoc.Document
	if c.Document != "" && deps.Documents != nil {
		var err error
		if doc, err = deps.Documents.ReadDocument(deps.Ctx, c.Document); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s\n", chatdoc.ErrorMessage(err))
		}
	}

	instructions := c.Instructions
	if instructions == "" {
		instructions = chatdoc.DefaultInstructions
	}
	chat := chatdoc.NewChatService(deps.Generator, doc, instructions)
	chat.TokenCounter = deps.TokenCounter
	if deps.Logger != nil {
		chat.Logger = deps.Logger
	}

	history, err := chat.Ask(deps.Ctx, chatdoc.NewTranscript(""), c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, history[len(history)-1].Content)
	return nil
}
