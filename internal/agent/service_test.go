package agent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/despacho-chat/internal/domain"
	"github.com/ashureev/despacho-chat/internal/inference"
	"github.com/ashureev/despacho-chat/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	result  inference.Result
	calls   int
	history []domain.Turn
	message string
}

func (f *fakeRemote) TryRemote(_ context.Context, message string, history []domain.Turn) inference.Result {
	f.calls++
	f.message = message
	f.history = history
	return f.result
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMatcher(t *testing.T) *knowledge.Matcher {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	return knowledge.NewMatcher(kb, knowledge.WithPicker(func(int) int { return 0 }))
}

func TestRespondUsesRemoteReply(t *testing.T) {
	remote := &fakeRemote{result: inference.Result{Text: "Con gusto le ayudamos a agendar su cita.", OK: true}}
	svc := NewService(remote, newMatcher(t), quietLogger())
	history := []domain.Turn{{Text: "hola", IsUser: true}}

	reply := svc.Respond(context.Background(), "Quiero una cita", "es", history)
	assert.Equal(t, domain.SourceRemote, reply.Source)
	assert.Equal(t, "Con gusto le ayudamos a agendar su cita.", reply.Text)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, history, remote.history)
	assert.Equal(t, "Quiero una cita", remote.message)
}

func TestRespondFallsBackToKnowledgeBase(t *testing.T) {
	remote := &fakeRemote{result: inference.Result{Reason: "status"}}
	m := newMatcher(t)
	svc := NewService(remote, m, quietLogger())

	reply := svc.Respond(context.Background(), "Quiero agendar una cita para mañana", "es", nil)
	assert.Equal(t, domain.SourceKnowledge, reply.Source)
	assert.Equal(t, "citas", reply.Intent)
	citas, _ := m.Base().Lookup("citas")
	assert.Equal(t, citas.Responses[0], reply.Text)
}

func TestRespondWithoutRemote(t *testing.T) {
	svc := NewService(nil, newMatcher(t), quietLogger())

	reply := svc.Respond(context.Background(), "zzz", "", nil)
	assert.Equal(t, domain.SourceDefault, reply.Source)
	assert.NotEmpty(t, reply.Text)
}

func TestRespondIsTotal(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer failing.Close()

	withToken := inference.DefaultConfig()
	withToken.URL = failing.URL
	withToken.Token = "token"

	remotes := map[string]Remote{
		"no remote":     nil,
		"no credential": inference.NewClient(inference.DefaultConfig(), nil, nil, quietLogger()),
		"failing":       inference.NewClient(withToken, nil, failing.Client(), quietLogger()),
	}
	inputs := []struct{ text, lang string }{
		{"hola", "es"},
		{"What are your fees?", "en"},
		{"¿?¡!", "es"},
		{"el la los", "es"},
		{"contrato de arrendamiento urgente", "es"},
	}

	for name, remote := range remotes {
		svc := NewService(remote, newMatcher(t), quietLogger())
		for _, in := range inputs {
			reply := svc.Respond(context.Background(), in.text, in.lang, nil)
			assert.NotEmpty(t, reply.Text, "%s: %q", name, in.text)
			assert.NotEqual(t, domain.SourceRemote, reply.Source, "%s: %q", name, in.text)
		}
	}
}

func TestRespondRejectsRefusalFromRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"generated_text":"Asistente: No tengo información sobre eso, lo siento mucho."}]`)
	}))
	defer srv.Close()

	cfg := inference.DefaultConfig()
	cfg.URL = srv.URL
	cfg.Token = "token"
	svc := NewService(inference.NewClient(cfg, nil, srv.Client(), quietLogger()), newMatcher(t), quietLogger())

	reply := svc.Respond(context.Background(), "¿Cuál es su horario?", "es", nil)
	assert.Equal(t, domain.SourceKnowledge, reply.Source)
	assert.Equal(t, "horarios", reply.Intent)
}
