package classify

import (
	"context"
	"fmt"
	"sync"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// chatOptions are merged over the model's configured chat options on every call.
var chatOptions = map[string]any{"temperature": 0}

type agentBackend struct {
	cfg gaconfig.AgentConfig

	mu          sync.Mutex
	agent       agent.Agent
	instruction string
}

// NewAgentBackend returns a Backend that sends each completion through a
// go-agents chat agent built from cfg. The instruction travels as the agent's
// system prompt and the payload as the user message, sampled at temperature 0.
func NewAgentBackend(cfg gaconfig.AgentConfig) (Backend, error) {
	b := &agentBackend{cfg: cfg}
	if _, err := b.agentFor(Instruction); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *agentBackend) Complete(ctx context.Context, instruction, payload string) (string, error) {
	a, err := b.agentFor(instruction)
	if err != nil {
		return "", err
	}

	resp, err := a.Chat(ctx, payload, chatOptions)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return resp.Content(), nil
}

// agentFor returns the agent whose system prompt is instruction, rebuilding it
// when the instruction changes.
func (b *agentBackend) agentFor(instruction string) (agent.Agent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.agent != nil && b.instruction == instruction {
		return b.agent, nil
	}

	cfg := b.cfg
	cfg.SystemPrompt = instruction

	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	b.agent = a
	b.instruction = instruction
	return a, nil
}
