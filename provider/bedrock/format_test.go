package bedrock

import (
	"testing"

	"github.com/stratollm/strato/messages"
	"github.com/stretchr/testify/assert"
)

func TestFlattenParts(t *testing.T) {
	tests := []struct {
		name  string
		parts []messages.ContentPart
		want  string
	}{
		{
			name:  "empty input",
			parts: nil,
			want:  "",
		},
		{
			name:  "single text part is verbatim",
			parts: []messages.ContentPart{messages.Text("hi")},
			want:  "hi",
		},
		{
			name: "every kind yields exactly one fragment",
			parts: []messages.ContentPart{
				messages.Text("hi"),
				messages.Image("s3://x"),
				messages.ToolUse("search"),
				messages.UnknownContentPart{Tag: "video"},
			},
			want: "hi [Image: s3://x] [Tool: search] [Unknown Block]",
		},
		{
			name: "order is preserved",
			parts: []messages.ContentPart{
				messages.ToolUse("lookup"),
				messages.Text("then explain"),
			},
			want: "[Tool: lookup] then explain",
		},
		{
			name: "empty text still yields a fragment",
			parts: []messages.ContentPart{
				messages.Text(""),
				messages.Text("next"),
			},
			want: " next",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenParts(tt.parts))
		})
	}
}
