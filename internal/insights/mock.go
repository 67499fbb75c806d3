package insights

import (
	"context"
	"sync"
)

// MockResponse is a canned provider reply.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider returns canned responses in order and then a default
// well-formed insight.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     int
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, systemPrompt string, userPrompt string) (*ProviderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.responses) == 0 {
		return &ProviderResponse{Content: mockInsightJSON, Model: "mock", PromptTokens: 400, OutputTokens: 600}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &ProviderResponse{Content: resp.Content, Model: "mock"}, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

const mockInsightJSON = `{
  "insights": ["Você aprende melhor quando vê a informação organizada."],
  "recommendations": ["Use mapas mentais para planejar conversas importantes."],
  "strengths": ["Memória visual apurada"],
  "areas_for_improvement": ["Escuta ativa em reuniões longas"],
  "career_suggestions": ["Design de produto"],
  "communication_tips": ["Leve um esboço ou diagrama para explicar ideias."],
  "personality_traits": ["Observador"],
  "confidence": 0.82
}`
