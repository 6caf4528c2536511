package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(snapshotCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/metrics", nil)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <name#tag>",
	Short: "Fetch the cached profile for a Riot ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(map[string]string{"riot_id": args[0]})
		if err != nil {
			return err
		}
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/get-user", body)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <puuid> <file.json>",
	Short: "Submit a client snapshot for a player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("%s does not contain valid JSON", args[1])
		}
		body, err := json.Marshal(map[string]any{
			"puuid":    args[0],
			"lcu_data": json.RawMessage(data),
		})
		if err != nil {
			return err
		}
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/update-lcu", body)
	},
}

func performRequest(out io.Writer, method, endpoint string, payload []byte) error {
	url := host + endpoint
	fmt.Fprintf(out, "Making request to %s\n", url)

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, "Response Body:")
	fmt.Fprintln(out, string(body))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
