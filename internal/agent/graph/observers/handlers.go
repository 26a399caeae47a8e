package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates the logging observers (prompt, model) into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()
}

// Handler exposes token accounting as a callbacks.Handler.
func (m *Metrics) Handler() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(m.newTokenHandler()).
		Handler()
}
