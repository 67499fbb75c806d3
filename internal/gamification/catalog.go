package gamification

// LevelDefinition maps a minimum experience to a level.
type LevelDefinition struct {
	Level         int
	MinExperience int
	Title         string
	Icon          string
}

// RankDefinition maps a minimum point total to a rank tier. Lower rank
// numbers are better.
type RankDefinition struct {
	Rank      int
	MinPoints int
	Title     string
}

// Metric names the activity counter an achievement is measured against.
type Metric string

const (
	MetricTests            Metric = "tests"
	MetricReviews          Metric = "reviews"
	MetricShares           Metric = "shares"
	MetricDistinctProfiles Metric = "distinct_profiles"
	MetricStreak           Metric = "streak"
	MetricPerfectScores    Metric = "perfect_scores"
	MetricAICoachUses      Metric = "ai_coach_uses"
	MetricMarketViews      Metric = "market_views"
	MetricImprovements     Metric = "improvements"
	MetricMaxLevel         Metric = "max_level"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementDefinition is a static catalog entry.
type AchievementDefinition struct {
	ID          string
	Title       string
	Description string
	Category    string
	Icon        string
	Metric      Metric
	Requirement int
	Points      int
	Rarity      Rarity
}

type ChallengeDefinition struct {
	ID          string
	Title       string
	Description string
	Objective   string
	Difficulty  string
	Reward      int
	Category    string
}

// Rewards is the experience granted per recorded activity.
type Rewards struct {
	TestCompleted int
	ReviewLeft    int
	ResultShared  int
	AICoachUsed   int
}

// Catalog is the immutable configuration of an Engine. Levels and Ranks
// must be sorted by ascending threshold.
type Catalog struct {
	Levels          []LevelDefinition
	Ranks           []RankDefinition
	Achievements    []AchievementDefinition
	DailyChallenges []ChallengeDefinition
	Rewards         Rewards
}

// DefaultCatalog returns the product tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Levels: []LevelDefinition{
			{Level: 1, MinExperience: 0, Title: "Iniciante", Icon: "🌱"},
			{Level: 2, MinExperience: 100, Title: "Aprendiz", Icon: "📚"},
			{Level: 3, MinExperience: 250, Title: "Praticante", Icon: "🎯"},
			{Level: 4, MinExperience: 450, Title: "Proficiente", Icon: "⭐"},
			{Level: 5, MinExperience: 700, Title: "Especialista", Icon: "🏆"},
			{Level: 6, MinExperience: 1000, Title: "Mestre", Icon: "👑"},
			{Level: 7, MinExperience: 1500, Title: "Lenda", Icon: "🔥"},
		},
		Ranks: []RankDefinition{
			{Rank: 10, MinPoints: 0, Title: "Bronze"},
			{Rank: 9, MinPoints: 500, Title: "Prata"},
			{Rank: 8, MinPoints: 1000, Title: "Ouro"},
			{Rank: 7, MinPoints: 2000, Title: "Platina"},
			{Rank: 6, MinPoints: 3500, Title: "Diamante"},
			{Rank: 5, MinPoints: 5000, Title: "Cristal"},
			{Rank: 4, MinPoints: 7500, Title: "Safira"},
			{Rank: 3, MinPoints: 10000, Title: "Rubi"},
			{Rank: 2, MinPoints: 15000, Title: "Esmeralda"},
			{Rank: 1, MinPoints: 25000, Title: "Lenda"},
		},
		Achievements: []AchievementDefinition{
			{ID: "first-test", Title: "Primeiro Passo", Description: "Complete seu primeiro teste de comunicação", Category: "tests", Icon: "🚀", Metric: MetricTests, Requirement: 1, Points: 10, Rarity: RarityCommon},
			{ID: "five-tests", Title: "Explorador", Description: "Complete 5 testes de comunicação", Category: "tests", Icon: "🗺️", Metric: MetricTests, Requirement: 5, Points: 25, Rarity: RarityUncommon},
			{ID: "ten-tests", Title: "Veterano", Description: "Complete 10 testes de comunicação", Category: "tests", Icon: "🎖️", Metric: MetricTests, Requirement: 10, Points: 50, Rarity: RarityRare},
			{ID: "all-profiles", Title: "Camaleão", Description: "Descubra todos os 3 perfis de comunicação", Category: "learning", Icon: "🦎", Metric: MetricDistinctProfiles, Requirement: 3, Points: 200, Rarity: RarityEpic},
			{ID: "perfect-score", Title: "Perfeição", Description: "Alcance uma pontuação perfeita (100) em um teste", Category: "special", Icon: "💯", Metric: MetricPerfectScores, Requirement: 1, Points: 100, Rarity: RarityEpic},
			{ID: "consistency-week", Title: "Consistente", Description: "Realize testes por 7 dias consecutivos", Category: "streak", Icon: "🔥", Metric: MetricStreak, Requirement: 7, Points: 75, Rarity: RarityRare},
			{ID: "consistency-month", Title: "Dedicado", Description: "Realize testes por 30 dias consecutivos", Category: "streak", Icon: "🌟", Metric: MetricStreak, Requirement: 30, Points: 200, Rarity: RarityEpic},
			{ID: "social-butterfly", Title: "Borboleta Social", Description: "Compartilhe seus resultados 5 vezes", Category: "social", Icon: "🦋", Metric: MetricShares, Requirement: 5, Points: 40, Rarity: RarityUncommon},
			{ID: "reviewer", Title: "Crítico Construtivo", Description: "Deixe 3 avaliações", Category: "social", Icon: "⭐", Metric: MetricReviews, Requirement: 3, Points: 30, Rarity: RarityUncommon},
			{ID: "market-analyst", Title: "Analista de Mercado", Description: "Visualize dados de mercado 10 vezes", Category: "market", Icon: "📊", Metric: MetricMarketViews, Requirement: 10, Points: 50, Rarity: RarityRare},
			{ID: "ai-coach-user", Title: "Aluno de IA", Description: "Use o AI Coach 5 vezes", Category: "learning", Icon: "🤖", Metric: MetricAICoachUses, Requirement: 5, Points: 60, Rarity: RarityRare},
			{ID: "improvement-master", Title: "Mestre do Desenvolvimento", Description: "Melhore sua pontuação em 20 pontos em testes consecutivos", Category: "special", Icon: "📈", Metric: MetricImprovements, Requirement: 1, Points: 150, Rarity: RarityEpic},
			{ID: "legend-status", Title: "Lenda Viva", Description: "Alcance o nível máximo (Lenda)", Category: "special", Icon: "👑", Metric: MetricMaxLevel, Requirement: 1, Points: 500, Rarity: RarityLegendary},
		},
		DailyChallenges: []ChallengeDefinition{
			{ID: "daily-1", Title: "Teste Matinal", Description: "Complete um teste no período da manhã", Objective: "Realize um teste entre 6h e 12h", Difficulty: "easy", Reward: 15, Category: "tests"},
			{ID: "daily-2", Title: "Compartilhador Social", Description: "Compartilhe seus resultados em redes sociais", Objective: "Compartilhe com pelo menos 1 pessoa", Difficulty: "easy", Reward: 20, Category: "social"},
			{ID: "daily-3", Title: "Aprendiz Dedicado", Description: "Visualize uma recomendação personalizada", Objective: "Acesse a página de recomendações", Difficulty: "easy", Reward: 10, Category: "learning"},
			{ID: "daily-4", Title: "Desafio de Melhoria", Description: "Supere sua pontuação anterior", Objective: "Faça um teste com pontuação maior que a anterior", Difficulty: "medium", Reward: 50, Category: "tests"},
			{ID: "daily-5", Title: "Crítico Construtivo", Description: "Deixe uma avaliação detalhada", Objective: "Escreva um review com mais de 50 caracteres", Difficulty: "medium", Reward: 30, Category: "social"},
		},
		Rewards: Rewards{
			TestCompleted: 50,
			ReviewLeft:    20,
			ResultShared:  10,
			AICoachUsed:   15,
		},
	}
}

// MaxLevel returns the highest defined level.
func (c Catalog) MaxLevel() int {
	if len(c.Levels) == 0 {
		return 1
	}
	return c.Levels[len(c.Levels)-1].Level
}
