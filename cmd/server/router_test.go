package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/despacho-chat/internal/agent"
	"github.com/ashureev/despacho-chat/internal/api"
	"github.com/ashureev/despacho-chat/internal/inference"
	"github.com/ashureev/despacho-chat/internal/knowledge"
	"github.com/ashureev/despacho-chat/internal/session"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kb, err := knowledge.Default()
	require.NoError(t, err)

	// No credential: the remote path is absent and replies come from the knowledge base.
	remote := inference.NewClient(inference.DefaultConfig(), nil, nil, logger)
	svc := agent.NewService(remote, knowledge.NewMatcher(kb, knowledge.WithPicker(func(int) int { return 0 })), logger)

	r := newRouter([]string{"http://localhost:5173"}, true,
		api.NewHealthHandler(),
		agent.NewHandler(svc, nil),
		session.NewWebSocketHandler(svc, session.NewManager(), nil, "http://localhost:5173", true),
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got api.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "chatbot", got.Service)
	assert.NotEmpty(t, got.Timestamp)
}

func TestHTTPAndFirstWebSocketMessageAgree(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inputs := []struct{ text, lang string }{
		{"Quiero agendar una cita para mañana", "es"},
		{"¿Cuánto cobran de honorarios?", "es"},
		{"What are your fees?", "en"},
	}
	for _, in := range inputs {
		body, err := json.Marshal(map[string]string{"text": in.text, "language": in.lang})
		require.NoError(t, err)
		resp, err := http.Post(srv.URL+"/chat", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		var httpReply agent.ChatResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&httpReply))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
		require.NoError(t, err)
		require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"text": in.text, "language": in.lang}))
		var wsReply agent.ChatResponse
		require.NoError(t, wsjson.Read(ctx, conn, &wsReply))
		require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

		assert.Equal(t, httpReply.Response, wsReply.Response, in.text)
		assert.NotEmpty(t, httpReply.Response)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
