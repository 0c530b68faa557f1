package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

// Generator produces one assistant reply for a conversation. Satisfied by
// Service; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, history []*models.Message) (string, error)
}

// ErrNoProvider is returned when neither the primary nor the fallback
// provider could produce a reply.
var ErrNoProvider = errors.New("no assistant provider succeeded")

type provider struct {
	name  string
	model model.ToolCallingChatModel
	agent *react.Agent
}

// Service answers conversations through a primary chat model with a single
// fallback. Providers that fail to initialize are skipped with a warning so
// the assistant can come up with partial credentials.
type Service struct {
	providers []*provider
}

// NewService builds the provider chain from config. cfg.Assistant.Primary is
// tried first, cfg.Assistant.Fallback second.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	names := []string{cfg.Assistant.Primary}
	if cfg.Assistant.Fallback != "" && cfg.Assistant.Fallback != cfg.Assistant.Primary {
		names = append(names, cfg.Assistant.Fallback)
	}

	tools := initToolsChain(cfg)

	var providers []*provider
	for _, name := range names {
		p, err := newProvider(ctx, cfg, name, tools)
		if err != nil {
			zap.L().Warn("assistant provider unavailable", zap.String("provider", name), zap.Error(err))
			continue
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no assistant providers configured (primary=%s)", cfg.Assistant.Primary)
	}
	return &Service{providers: providers}, nil
}

func newProvider(ctx context.Context, cfg *config.Config, name string, tools []tool.BaseTool) (*provider, error) {
	provCfg, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", name)
	}
	if provCfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s has no api key", name)
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch name {
	case "openai", "groq":
		// Groq exposes an OpenAI-compatible API, so both ride the same client
		// with different base URLs.
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{APIKey: provCfg.APIKey})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 1024,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", name, err)
	}

	p := &provider{name: name, model: chatModel}
	if len(tools) > 0 {
		p.agent, err = react.NewAgent(ctx, &react.AgentConfig{
			ToolCallingModel: chatModel,
			ToolsConfig: compose.ToolsNodeConfig{
				Tools: tools,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("init %s react agent: %w", name, err)
		}
	}
	return p, nil
}

// Generate produces one reply for the given history. The primary provider is
// tried first; on failure the fallback gets exactly one attempt.
func (s *Service) Generate(ctx context.Context, history []*models.Message) (string, error) {
	messages := convertMessages(history)
	if len(messages) == 0 {
		return "", errors.New("history cannot be empty")
	}

	var lastErr error
	for _, p := range s.providers {
		reply, err := p.generate(ctx, messages)
		if err != nil {
			zap.L().Warn("assistant generation failed",
				zap.String("provider", p.name), zap.Error(err))
			lastErr = err
			continue
		}
		return reply, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrNoProvider, lastErr)
	}
	return "", ErrNoProvider
}

func (p *provider) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	var (
		out *schema.Message
		err error
	)
	if p.agent != nil {
		out, err = p.agent.Generate(ctx, messages)
	} else {
		out, err = p.model.Generate(ctx, messages)
	}
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(out.Content)
	if reply == "" {
		return "", errors.New("empty completion")
	}
	return reply, nil
}

func convertMessages(history []*models.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		if msg == nil {
			continue
		}
		var role schema.RoleType
		switch msg.Role {
		case models.RoleAssistant:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	return messages
}
