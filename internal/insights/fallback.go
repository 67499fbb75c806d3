package insights

import "github.com/dialogamente/backend/internal/models"

var fallbackInsights = map[models.Profile]Insight{
	models.ProfileVisual: {
		Insights:            []string{"Você processa melhor informações que consegue ver: gráficos, esquemas e textos bem organizados."},
		Recommendations:     []string{"Prepare roteiros visuais antes de conversas importantes.", "Peça que instruções verbais sejam confirmadas por escrito."},
		Strengths:           []string{"Organização visual", "Apresentações", "Design de informação"},
		AreasForImprovement: []string{"Escuta ativa", "Comunicação verbal", "Empatia auditiva"},
		CareerSuggestions:   []string{"Designer", "Analista de dados", "Arquiteto de informação", "UX/UI Designer"},
		CommunicationTips:   []string{"Use diagramas para explicar ideias complexas.", "Mantenha contato visual ao ouvir."},
		PersonalityTraits:   []string{"Observador", "Detalhista"},
	},
	models.ProfileAuditory: {
		Insights:            []string{"Você aprende e convence pela fala: o tom e o ritmo da conversa importam para você."},
		Recommendations:     []string{"Resuma reuniões em voz alta antes de encerrá-las.", "Registre por escrito os combinados mais importantes."},
		Strengths:           []string{"Oratória", "Escuta ativa", "Comunicação verbal"},
		AreasForImprovement: []string{"Organização visual", "Documentação", "Comunicação escrita"},
		CareerSuggestions:   []string{"Palestrante", "Coach", "Consultor", "Professor", "Mediador"},
		CommunicationTips:   []string{"Faça perguntas abertas para engajar o interlocutor.", "Varie a entonação ao apresentar."},
		PersonalityTraits:   []string{"Articulado", "Bom ouvinte"},
	},
	models.ProfileKinesthetic: {
		Insights:            []string{"Você se comunica pela experiência: sensações, ações e exemplos práticos fazem sentido para você."},
		Recommendations:     []string{"Traga exemplos práticos e demonstrações para suas explicações.", "Faça pausas ativas em reuniões longas."},
		Strengths:           []string{"Empatia", "Relacionamento", "Prática", "Intuição"},
		AreasForImprovement: []string{"Comunicação escrita", "Apresentações formais", "Organização"},
		CareerSuggestions:   []string{"Terapeuta", "Recrutador", "Gerente de Projetos", "Facilitador"},
		CommunicationTips:   []string{"Use histórias e situações reais para ilustrar pontos.", "Observe a linguagem corporal do grupo."},
		PersonalityTraits:   []string{"Empático", "Pragmático"},
	},
}

// FallbackInsight returns the rule-based insight for a profile. It never
// carries a confidence value.
func FallbackInsight(p models.Profile) Insight {
	in, ok := fallbackInsights[p]
	if !ok {
		in = fallbackInsights[models.ProfileVisual]
	}
	return Insight{
		Insights:            append([]string(nil), in.Insights...),
		Recommendations:     append([]string(nil), in.Recommendations...),
		Strengths:           append([]string(nil), in.Strengths...),
		AreasForImprovement: append([]string(nil), in.AreasForImprovement...),
		CareerSuggestions:   append([]string(nil), in.CareerSuggestions...),
		CommunicationTips:   append([]string(nil), in.CommunicationTips...),
		PersonalityTraits:   append([]string(nil), in.PersonalityTraits...),
	}
}
