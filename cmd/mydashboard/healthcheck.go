package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const healthcheckTimeout = 2 * time.Second

func newHealthcheckCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Exit non-zero unless the running server reports healthy",
		Long: `Healthcheck calls /api/v1/health on the local server. It is meant for
container HEALTHCHECK directives, so it reads MYDASHBOARD_LISTEN_ADDR and
dials loopback when the server binds all interfaces.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = os.Getenv("MYDASHBOARD_LISTEN_ADDR")
			}
			return checkHealth(commandContext(cmd), normalizeAddr(addr))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "server address (default: MYDASHBOARD_LISTEN_ADDR)")
	return cmd
}

func checkHealth(parent context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(parent, healthcheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/api/v1/health", addr), nil)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: healthcheckTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("server reports status %q", body.Status)
	}
	return nil
}

// normalizeAddr dials loopback rather than the bind-all address. Containers
// bind 0.0.0.0 but the check runs inside the same container.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
