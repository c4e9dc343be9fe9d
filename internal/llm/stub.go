package llm

import "context"

// StubGenerator is the deterministic TextGenerator used when no API key is
// configured. It returns an empty JSON object for any prompt, which callers
// treat as "nothing usable generated" and resolve through their fallback
// path. Selecting stub vs live happens at construction time, never inside
// business logic.
type StubGenerator struct{}

// NewStubGenerator creates a new StubGenerator.
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{}
}

// GenerateContent returns a fixed empty JSON response.
func (s *StubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "{}", nil
}
