// Package prompt renders the text-generation prompt sent to the inference endpoint.
package prompt

import (
	"strings"

	"github.com/ashureev/despacho-chat/internal/domain"
)

// ContextTurns is the number of trailing history turns included in a prompt.
const ContextTurns = 3

const (
	userRole      = "Usuario"
	assistantRole = "Asistente"
)

// AssistantCue is the line prefix after which the model writes its reply.
const AssistantCue = assistantRole + ":"

// SystemInstructions describe the office and the rules the model must follow.
const SystemInstructions = `Eres un asistente virtual especializado en derecho para el Despacho Legal "García & Asociados". 

INFORMACIÓN DEL DESPACHO:
- Horarios: Lunes a Viernes 9:00 AM - 6:00 PM, Sábados 9:00 AM - 1:00 PM
- Teléfono: (555) 123-4567
- Email: info@despacholegal.com
- Dirección: Av. Principal 123, Ciudad
- Servicios: Derecho Civil, Mercantil, Laboral, Familiar, Penal, Administrativo
- Consulta inicial gratuita disponible

INSTRUCCIONES:
1. Responde de manera profesional, clara y empática
2. NO des consejos legales específicos, solo orientación general
3. SIEMPRE recomienda consultar con un abogado para casos concretos
4. Para citas: Sugiere programar en horarios disponibles
5. Para horarios: Proporciona la información exacta
6. Para servicios: Lista las áreas de especialización
7. Para contacto: Da la información de contacto completa
8. Mantén respuestas concisas pero informativas

CONTEXTO DE LA CONVERSACIÓN:`

// Build renders the system block, the last ContextTurns turns of history and
// the generation cue for message.
func Build(history []domain.Turn, message string) string {
	var b strings.Builder
	b.WriteString(SystemInstructions)
	b.WriteByte('\n')
	for _, t := range domain.RecentTurns(history, ContextTurns) {
		b.WriteString(roleOf(t))
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}
	b.WriteString(userRole)
	b.WriteString(": ")
	b.WriteString(message)
	b.WriteByte('\n')
	b.WriteString(AssistantCue)
	return b.String()
}

func roleOf(t domain.Turn) string {
	if t.IsUser {
		return userRole
	}
	return assistantRole
}
