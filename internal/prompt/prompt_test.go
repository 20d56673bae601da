package prompt

import (
	"strings"
	"testing"

	"github.com/ashureev/despacho-chat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildWithoutHistory(t *testing.T) {
	got := Build(nil, "¿Cuál es su horario?")
	assert.Equal(t, SystemInstructions+"\nUsuario: ¿Cuál es su horario?\nAsistente:", got)
}

func TestBuildKeepsLastThreeTurns(t *testing.T) {
	history := []domain.Turn{
		{Text: "turno 0", IsUser: true},
		{Text: "turno 1", IsUser: false},
		{Text: "turno 2", IsUser: true},
		{Text: "turno 3", IsUser: false},
		{Text: "turno 4", IsUser: true},
	}

	got := Build(history, "nuevo")
	context := strings.TrimPrefix(got, SystemInstructions+"\n")

	assert.Equal(t, "Usuario: turno 2\nAsistente: turno 3\nUsuario: turno 4\nUsuario: nuevo\nAsistente:", context)
	assert.NotContains(t, got, "turno 0")
	assert.NotContains(t, got, "turno 1")
}

func TestBuildDoesNotMutateHistory(t *testing.T) {
	history := []domain.Turn{{Text: "a", IsUser: true}, {Text: "b"}}
	before := append([]domain.Turn(nil), history...)
	_ = Build(history, "c")
	assert.Equal(t, before, history)
}

func TestSystemInstructionsCoverOfficeFacts(t *testing.T) {
	for _, want := range []string{"García & Asociados", "(555) 123-4567", "info@despacholegal.com", "9:00 AM - 6:00 PM", "NO des consejos legales"} {
		assert.Contains(t, SystemInstructions, want)
	}
}
