package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/repository/profile"
	"github.com/auralink/guardian-alert/internal/service/server"
)

// fakeGateway records relayed messages and acknowledges them.
type fakeGateway struct {
	// received collects the query parameters of every delivery.
	received []url.Values
}

// handler implements the gateway exec endpoint.
func (g *fakeGateway) handler(w http.ResponseWriter, r *http.Request) {
	g.received = append(g.received, r.URL.Query())
	_, _ = w.Write([]byte(`{"ok": true}`))
}

// startServer starts the dispatch HTTP server over a temporary profile
// database and configuration. Returns its base URL and a stop function.
func startServer(t *testing.T, gatewayURL, profileDB string) (baseURL string, stop func()) {
	t.Helper()

	// Reserve a free port for the test server.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	// Create temporary configuration file.
	require.NoError(
		t,
		config.Save(cfgPath, &config.Config{
			GatewayURL:       gatewayURL,
			ListenAddress:    addr,
			ProfileDB:        profileDB,
			LocationDeadline: 100 * time.Millisecond,
			DeliveryTimeout:  3 * time.Second,
		}),
	)

	// Create cancellable context for server lifecycle.
	ctx, cancel := context.WithCancel(context.Background())

	// Start server in background goroutine.
	go func() {
		_ = server.Run(ctx, &server.Options{ConfigPath: cfgPath})
	}()

	// Wait briefly for server to start listening.
	time.Sleep(150 * time.Millisecond)

	return "http://" + addr, func() {
		cancel()
		time.Sleep(100 * time.Millisecond)
	}
}

// dispatchResponse mirrors the caller contract output.
type dispatchResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// postDispatch posts a dispatch request against the running server.
func postDispatch(t *testing.T, baseURL string, body map[string]string) dispatchResponse {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post( //nolint:noctx // Test code with a local server.
		baseURL+"/api/v1/emergency/dispatch",
		"application/json",
		bytes.NewReader(payload),
	)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	var decoded dispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return decoded
}

// TestDispatch_EndToEnd exercises the whole stack: HTTP API, SQLite
// profile store, collectors settling absent, and gateway delivery.
func TestDispatch_EndToEnd(t *testing.T) {
	t.Parallel()

	gw := new(fakeGateway)
	gatewayServer := httptest.NewServer(http.HandlerFunc(gw.handler))

	defer gatewayServer.Close()

	profileDB := filepath.Join(t.TempDir(), "profiles.db")

	// Register a guardian contact directly through the store.
	store, err := profile.Open(profileDB)
	require.NoError(t, err)
	require.NoError(t, store.SetGuardianChatID(context.Background(), "u1", "c1"))
	require.NoError(t, store.Close())

	baseURL, stop := startServer(t, gatewayServer.URL, profileDB)
	defer stop()

	// Registered user: alert reaches the gateway.
	resp := postDispatch(t, baseURL, map[string]string{"uid": "u1", "displayName": "Sara"})
	require.True(t, resp.OK)
	require.Len(t, gw.received, 1)
	require.Equal(t, "c1", gw.received[0].Get("chat_id"))
	require.Contains(t, gw.received[0].Get("text"), "<b>Sara</b>")
	require.NotEmpty(t, gw.received[0].Get("dispatch_id"))

	// Unregistered user: localized failure, nothing relayed.
	resp = postDispatch(t, baseURL, map[string]string{"uid": "u2"})
	require.False(t, resp.OK)
	require.NotEmpty(t, resp.Error)
	require.Len(t, gw.received, 1)

	// Health endpoint responds.
	healthResp, err := http.Get(baseURL + "/healthz") //nolint:noctx // Test code with a local server.
	require.NoError(t, err)
	require.NoError(t, healthResp.Body.Close())
	require.Equal(t, http.StatusOK, healthResp.StatusCode)
}
