package llm

import (
	"context"
	"errors"
	"sync"
)

var errEmptyProbe = errors.New("model returned an empty probe response")

// MockCall records one Generate invocation against the mock.
type MockCall struct {
	Model  string
	Prompt string
}

// MockGenerator is a scriptable Generator for tests. Responses are consumed
// in order per model; Fail marks a model as unavailable.
type MockGenerator struct {
	mu        sync.Mutex
	responses map[string][]string
	failures  map[string]error
	calls     []MockCall
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		responses: make(map[string][]string),
		failures:  make(map[string]error),
	}
}

// Respond queues replies for model, returned one per Generate call. The last
// reply is repeated once the queue is exhausted.
func (m *MockGenerator) Respond(model string, replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[model] = append(m.responses[model], replies...)
}

// Fail makes every Generate call against model return err.
func (m *MockGenerator) Fail(model string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[model] = err
}

func (m *MockGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Model: model, Prompt: prompt})

	if err, ok := m.failures[model]; ok {
		return "", err
	}

	queue := m.responses[model]
	if len(queue) == 0 {
		return "", errEmptyProbe
	}
	reply := queue[0]
	if len(queue) > 1 {
		m.responses[model] = queue[1:]
	}
	return reply, nil
}

// Calls returns a copy of all recorded invocations.
func (m *MockGenerator) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
