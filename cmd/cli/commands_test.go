package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--host", server.URL}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProfileCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/get-user", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"riot_id":"cyan#pink"}`, string(body))
		w.Write([]byte(`{"riot_data":{},"mastery_data":[],"lcu_data":{}}`))
	}))
	defer server.Close()

	out, err := runCLI(t, server, "profile", "cyan#pink")
	require.NoError(t, err)
	assert.Contains(t, out, "Status Code: 200")
	assert.Contains(t, out, `"lcu_data":{}`)
}

func TestSnapshotCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"301103":{"currentLevel":"GOLD"}}`), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/update-lcu", r.URL.Path)
		var req struct {
			PUUID   string          `json:"puuid"`
			LCUData json.RawMessage `json:"lcu_data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc-123", req.PUUID)
		assert.JSONEq(t, `{"301103":{"currentLevel":"GOLD"}}`, string(req.LCUData))
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	_, err := runCLI(t, server, "snapshot", "abc-123", path)
	require.NoError(t, err)
}

func TestPerformRequest_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "riot account lookup failed with status 404", http.StatusBadGateway)
	}))
	defer server.Close()

	out, err := runCLI(t, server, "profile", "ghost#0000")
	require.Error(t, err)
	assert.Contains(t, out, "Status Code: 502")
}
