package insights

import (
	"fmt"
	"strings"

	"github.com/dialogamente/backend/internal/models"
)

const (
	maxOutputTokens = 2000
	temperature     = 0.7
)

// ProfileSnapshot is what the coach knows about a result.
type ProfileSnapshot struct {
	Dominant      models.Profile
	Scores        models.ScoreVector
	PreviousTests int
}

func SystemPrompt() string {
	return `Você é um especialista em análise de perfis de comunicação e psicologia organizacional.
Forneça insights profundos, práticos e personalizados sobre o perfil de comunicação do usuário.
Seja específico, construtivo e motivador. Responda sempre em português brasileiro.
Responda somente com um objeto JSON, sem texto adicional.`
}

func BuildUserPrompt(s ProfileSnapshot) string {
	var b strings.Builder
	b.WriteString("Analise o seguinte perfil de comunicação e forneça insights detalhados.\n\n")
	fmt.Fprintf(&b, "Perfil identificado: %s\n\n", s.Dominant.DisplayName())
	b.WriteString("Pontuações:\n")
	fmt.Fprintf(&b, "- Visual: %d%%\n", s.Scores.Visual)
	fmt.Fprintf(&b, "- Auditivo: %d%%\n", s.Scores.Auditory)
	fmt.Fprintf(&b, "- Cinestésico: %d%%\n", s.Scores.Kinesthetic)
	if s.PreviousTests > 0 {
		fmt.Fprintf(&b, "\nTestes anteriores: %d\n", s.PreviousTests)
	}
	b.WriteString(`
Use exatamente este formato JSON:

{
  "insights": ["3-5 insights principais sobre o perfil"],
  "recommendations": ["3-5 recomendações práticas"],
  "strengths": ["3-4 pontos fortes"],
  "areas_for_improvement": ["3-4 áreas a desenvolver"],
  "career_suggestions": ["3-5 carreiras adequadas"],
  "communication_tips": ["5-7 dicas para o dia a dia"],
  "personality_traits": ["4-6 traços de personalidade"],
  "confidence": 0.85
}

"confidence" é um número entre 0 e 1 com a sua confiança na análise.`)
	return b.String()
}
