// chatbay-push stages, commits and pushes the current working tree.
// A clean tree exits 0 without committing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chatbay/ebay-media/internal/gitops"
)

func main() {
	var (
		message = flag.String("m", "", "commit message (default: timestamped)")
		remote  = flag.String("remote", "origin", "push remote")
		branch  = flag.String("branch", "main", "push branch")
		dir     = flag.String("dir", ".", "working tree to push")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pusher := gitops.NewPusher(*dir,
		gitops.WithRemote(*remote),
		gitops.WithBranch(*branch),
	)

	err := pusher.Push(ctx, *message)
	if errors.Is(err, gitops.ErrNoChanges) {
		fmt.Println("Nothing to commit.")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "push failed:", err)
		os.Exit(1)
	}

	fmt.Printf("Pushed to %s/%s.\n", *remote, *branch)
}
