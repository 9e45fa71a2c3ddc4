package main

import (
	"fmt"

	"github.com/fwojciec/chatdoc"
)

// Run executes the search command. An unavailable directory is reported on
// stderr and every code is then reported as not found.
func (c *SearchCmd) Run(deps *Dependencies) error {
	dir, err := deps.Loader.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warning: directory unavailable (%s)\n", chatdoc.ErrorCode(err))
	}

	for _, raw := range c.Codes {
		res, err := chatdoc.Search(deps.Ctx, dir, deps.Grammar, raw)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", chatdoc.ErrorMessage(err))
			return err
		}

		switch res.Status {
		case chatdoc.SearchFound:
			fmt.Fprintf(deps.Stdout, "%s\t%s\n", res.CURP, res.Email)
		case chatdoc.SearchEmpty:
			fmt.Fprintf(deps.Stdout, "-\t%s\n", res.Message)
		default:
			fmt.Fprintf(deps.Stdout, "%s\t%s\n", res.CURP, res.Message)
		}
	}
	return nil
}
