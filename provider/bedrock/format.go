package bedrock

import (
	"fmt"
	"strings"

	"github.com/stratollm/strato/messages"
)

// flattenParts collapses structured message content into a single display
// string for a backend that does not accept structured content. Every part
// yields exactly one fragment, in order; nothing is dropped.
func flattenParts(parts []messages.ContentPart) string {
	fragments := make([]string, len(parts))
	for i, part := range parts {
		switch p := part.(type) {
		case messages.TextContentPart:
			fragments[i] = p.Text
		case messages.ImageContentPart:
			fragments[i] = fmt.Sprintf("[Image: %s]", p.Source)
		case messages.ToolUseContentPart:
			fragments[i] = fmt.Sprintf("[Tool: %s]", p.Name)
		default:
			fragments[i] = "[Unknown Block]"
		}
	}
	return strings.Join(fragments, " ")
}
