package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func newInterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()

	return ctx, cancel
}

func main() {
	ctx, cancel := newInterruptContext(context.Background())
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Errorln("command failed")
		cancel()
		os.Exit(1)
	}
}
