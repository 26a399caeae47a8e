package parsers

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// isScratchpad reports whether m belongs to the tool-calling scratchpad:
// an assistant turn requesting tools, or a tool result.
func isScratchpad(m *schema.Message) bool {
	if m == nil {
		return false
	}
	if m.Role == schema.Tool {
		return true
	}
	return m.Role == schema.Assistant && len(m.ToolCalls) > 0
}

// SplitScratchpad separates the dialogue from the trailing run of tool-call
// and tool-result messages. history ends with the most recent genuine
// message; when there is none, everything is scratchpad.
func SplitScratchpad(msgs []*schema.Message) (history, scratchpad []*schema.Message) {
	last := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if !isScratchpad(msgs[i]) {
			last = i
			break
		}
	}
	return msgs[:last+1], msgs[last+1:]
}

// Dialogue keeps only genuine user and assistant turns, dropping every
// scratchpad message wherever it appears in the history.
func Dialogue(msgs []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil || isScratchpad(m) || m.Role == schema.System {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Transcript renders messages as "role: content" lines for text prompts.
func Transcript(msgs []*schema.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m.Content)
		if content == "" && len(m.ToolCalls) > 0 {
			names := make([]string, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				names = append(names, tc.Function.Name)
			}
			content = "[calls " + strings.Join(names, ", ") + "]"
		}
		fmt.Fprintf(&b, "%s: %s\n", roleLabel(m.Role), content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func roleLabel(r schema.RoleType) string {
	switch r {
	case schema.User:
		return "human"
	case schema.Assistant:
		return "ai"
	default:
		return string(r)
	}
}
