// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cmdl/internal/api"
	"cmdl/internal/host"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Starts an HTTP server exposing the registered commands and their actions.
Prompts are answered by the request body, and executed command output is
returned in the response.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return runServer(cmd.Context(), addr)
	},
}

// executorForRequest builds a runner per request so that each response only
// carries its own output.
func executorForRequest(hostName string, output io.Writer) (host.Executor, error) {
	r, err := runnerFor(hostName)
	if err != nil {
		return nil, err
	}
	r.Stdin = strings.NewReader("")
	r.Stdout = output
	r.Stderr = output
	return r, nil
}

func runServer(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(cfg, executorForRequest).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		statusColor.Printf("Serving API on http://%s\n", addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "address to listen on")
}
