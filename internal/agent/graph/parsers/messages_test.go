package parsers

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolCall(id, name string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{ID: id, Function: schema.FunctionCall{Name: name}}})
}

func TestSplitScratchpad(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("plan my trip"),
		schema.AssistantMessage("sure", nil),
		schema.UserMessage("Paris to Bayonne"),
		toolCall("1", "check_calendar"),
		schema.ToolMessage("2025-09-06: Free all day", "1"),
	}

	history, pad := SplitScratchpad(msgs)
	require.Len(t, history, 3)
	require.Len(t, pad, 2)
	assert.Equal(t, "Paris to Bayonne", history[2].Content)
	assert.Equal(t, schema.Tool, pad[1].Role)
}

func TestSplitScratchpadNoGenuineMessage(t *testing.T) {
	msgs := []*schema.Message{toolCall("1", "check_calendar"), schema.ToolMessage("x", "1")}
	history, pad := SplitScratchpad(msgs)
	assert.Empty(t, history)
	assert.Len(t, pad, 2)
}

func TestSplitScratchpadNoScratchpad(t *testing.T) {
	msgs := []*schema.Message{schema.UserMessage("hi")}
	history, pad := SplitScratchpad(msgs)
	assert.Len(t, history, 1)
	assert.Empty(t, pad)
}

func TestDialogueDropsToolTraffic(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("a"),
		toolCall("1", "get_surf_forecast"),
		schema.ToolMessage("x", "1"),
		schema.AssistantMessage("b", nil),
		schema.UserMessage("c"),
	}
	got := Dialogue(msgs)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Content, got[1].Content, got[2].Content})
}

func TestTranscript(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("hello"),
		toolCall("1", "check_calendar"),
		schema.AssistantMessage("hi there", nil),
	}
	assert.Equal(t, "human: hello\nai: [calls check_calendar]\nai: hi there", Transcript(msgs))
}
