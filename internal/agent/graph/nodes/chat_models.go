package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/surftrip-planner/server/internal/agent/model"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey        string
	BaseURL       string
	ChatConfig    *model.ChatModelConfig
	PlannerConfig *model.PlannerModelConfig
}

// ChatModels holds the conversational model and the tool-calling planner model
type ChatModels struct {
	Chat             *gemini.ChatModel
	Planner          *gemini.ChatModel
	ChatModelName    string
	PlannerModelName string
}

// NewChatModels creates both Gemini chat models sharing one client
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.ChatConfig == nil || config.PlannerConfig == nil {
		return nil, fmt.Errorf("chat model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chat, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ChatConfig.Model,
		Temperature: &config.ChatConfig.Temperature,
		MaxTokens:   &config.ChatConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	planner, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.PlannerConfig.Model,
		Temperature: &config.PlannerConfig.Temperature,
		MaxTokens:   &config.PlannerConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating planner model")
		return nil, fmt.Errorf("error creating planner model: %w", err)
	}

	return &ChatModels{
		Chat:             chat,
		Planner:          planner,
		ChatModelName:    config.ChatConfig.Model,
		PlannerModelName: config.PlannerConfig.Model,
	}, nil
}

// BindToolsToPlanner binds the tool schemas to the planner model
func (cm *ChatModels) BindToolsToPlanner(tools []*schema.ToolInfo) error {
	if err := cm.Planner.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tools", len(tools)).Msg("Successfully bound tools to planner model")
	return nil
}
