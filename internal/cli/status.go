// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/ragchat/internal/ui/styles"
)

// statusTimeout bounds the health check regardless of server.timeout_secs.
const statusTimeout = 10 * time.Second

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the answer service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.status(cmd.Context())
		},
	}
}

func (a *app) status(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	client := a.client()
	fmt.Fprintf(a.out, "Service:  %s\n", client.BaseURL())
	fmt.Fprintf(a.out, "Endpoint: %s\n", client.AnswerURL(a.cfg.Server.IndexID))

	start := time.Now()
	info, err := client.CheckHealth(ctx)
	if err != nil {
		fmt.Fprintln(a.out, styles.RenderError("unreachable: "+err.Error()))
		return errSilent
	}

	name := info.AppName
	if name == "" {
		name = "unknown"
	}
	if info.AppVersion != "" {
		name += " " + info.AppVersion
	}
	fmt.Fprintln(a.out, styles.RenderSuccess(fmt.Sprintf("%s (%s)", name, time.Since(start).Round(time.Millisecond))))
	return nil
}
