/*
objscope loads Wavefront geometry and reports what it found. Without a
path the model is read from standard input, so `objscope load < garg.obj`
works like the original course viewer.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/objscope/engine/core"
)

func main() {
	app := newApp(os.Stdin, os.Stdout)

	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		core.LogError(err.Error())
		stop()
		os.Exit(1)
	}
}
