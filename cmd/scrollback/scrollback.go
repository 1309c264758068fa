package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peco/scrollback"
	"github.com/peco/scrollback/internal/util"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scrollback.New().Run(ctx); err != nil {
		if util.IsIgnorableError(err) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		st, _ := util.GetExitStatus(err)
		cancel()
		os.Exit(st)
	}
}
