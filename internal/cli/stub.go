// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/answer"
	"github.com/jeranaias/ragchat/internal/logging"
	"github.com/jeranaias/ragchat/internal/stubserver"
	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// stubShutdownTimeout bounds the graceful shutdown after an interrupt.
const stubShutdownTimeout = 5 * time.Second

type stubFlags struct {
	addr    string
	delay   time.Duration
	indexes []string
	answers map[string]string
}

func newStubCommand(a *app) *cobra.Command {
	var f stubFlags

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stub answer service for demos and testing",
		Long: `Run a local stub answer service. It speaks the same JSON contract as the
real service and answers from a small table of canned question fragments;
anything else gets a "no results" signal.`,
		Example: `  ragchat stub --delay 1s
  ragchat stub --addr 127.0.0.1:5050 --answer "opening hours=9 to 5"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStub(cmd.Context(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.addr, "addr", stubserver.DefaultAddr, "listen address")
	flags.DurationVar(&f.delay, "delay", 0, "delay before every answer")
	flags.StringSliceVar(&f.indexes, "indexes", []string{answer.DefaultIndexID}, "index ids that exist")
	flags.StringToStringVar(&f.answers, "answer", nil, "extra canned answer as fragment=answer (repeatable)")
	return cmd
}

func (a *app) runStub(ctx context.Context, f stubFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	answers := stubserver.DefaultAnswers()
	for k, v := range f.answers {
		answers[k] = v
	}
	logger := logging.Component("stub")
	srv := stubserver.New(stubserver.Options{
		Indexes: f.indexes,
		Answers: answers,
		Delay:   f.delay,
		Logger:  &logger,
	})

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, styles.RenderInfo("stub answer service on http://"+ln.Addr().String()+" (Ctrl+C to stop)"))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), stubShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Serve may not have taken the listener yet.
	_ = ln.Close()
	<-errCh
	fmt.Fprintln(a.out, styles.RenderInfo(fmt.Sprintf("stopped after %d questions", srv.Requests())))
	return nil
}
