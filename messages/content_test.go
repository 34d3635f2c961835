package messages

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentOrParts_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		content ContentOrParts
		want    string
	}{
		{
			name:    "empty content and parts",
			content: ContentOrParts{},
			want:    "null",
		},
		{
			name: "simple string content",
			content: ContentOrParts{
				Content: "hello world",
			},
			want: `"hello world"`,
		},
		{
			name: "whitespace only content marshals to null",
			content: ContentOrParts{
				Content: "   ",
			},
			want: "null",
		},
		{
			name: "single text part",
			content: ContentOrParts{
				Parts: []ContentPart{
					TextContentPart{Text: "hello world"},
				},
			},
			want: `[{"type":"text","text":"hello world"}]`,
		},
		{
			name: "single image part",
			content: ContentOrParts{
				Parts: []ContentPart{
					ImageContentPart{Source: "s3://bucket/image.jpg"},
				},
			},
			want: `[{"type":"image","source":"s3://bucket/image.jpg"}]`,
		},
		{
			name: "single tool use part",
			content: ContentOrParts{
				Parts: []ContentPart{
					ToolUseContentPart{Name: "search"},
				},
			},
			want: `[{"type":"tool_use","name":"search"}]`,
		},
		{
			name: "mixed parts preserve order",
			content: ContentOrParts{
				Parts: []ContentPart{
					Text("look at"),
					Image("https://example.com/cat.png"),
					ToolUse("describe_image"),
				},
			},
			want: `[{"type":"text","text":"look at"},{"type":"image","source":"https://example.com/cat.png"},{"type":"tool_use","name":"describe_image"}]`,
		},
		{
			name: "unknown part keeps its tag",
			content: ContentOrParts{
				Parts: []ContentPart{
					UnknownContentPart{Tag: "video"},
				},
			},
			want: `[{"type":"video"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.content)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestContentOrParts_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ContentOrParts
		wantErr bool
	}{
		{
			name:  "string content",
			input: `"hello world"`,
			want:  ContentOrParts{Content: "hello world"},
		},
		{
			name:  "text part",
			input: `[{"type":"text","text":"hi"}]`,
			want: ContentOrParts{
				Parts: []ContentPart{TextContentPart{Text: "hi"}},
			},
		},
		{
			name:  "image part",
			input: `[{"type":"image","source":"s3://x"}]`,
			want: ContentOrParts{
				Parts: []ContentPart{ImageContentPart{Source: "s3://x"}},
			},
		},
		{
			name:  "tool use part",
			input: `[{"type":"tool_use","name":"search"}]`,
			want: ContentOrParts{
				Parts: []ContentPart{ToolUseContentPart{Name: "search"}},
			},
		},
		{
			name:  "unrecognized tag is preserved not rejected",
			input: `[{"type":"video","source":"s3://clip"}]`,
			want: ContentOrParts{
				Parts: []ContentPart{UnknownContentPart{Tag: "video"}},
			},
		},
		{
			name:    "text part missing text field",
			input:   `[{"type":"text"}]`,
			wantErr: true,
		},
		{
			name:    "image part missing source field",
			input:   `[{"type":"image"}]`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			input:   `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ContentOrParts
			err := got.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentOrParts_RoundTrip(t *testing.T) {
	original := ContentOrParts{
		Parts: []ContentPart{
			Text("annotate"),
			Image("s3://bucket/scan.png"),
			ToolUse("ocr"),
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ContentOrParts
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestMessageConstructors(t *testing.T) {
	user := User("hi there")
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "hi there", user.Content.Content)
	assert.True(t, user.Content.IsText())

	parts := UserParts(Text("a"), Image("s3://b"))
	assert.Equal(t, RoleUser, parts.Role)
	require.Len(t, parts.Content.Parts, 2)
	assert.False(t, parts.Content.IsText())

	asst := Assistant("sure")
	assert.Equal(t, RoleAssistant, asst.Role)
	assert.Equal(t, "sure", asst.Content.Content)
}
