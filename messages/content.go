package messages

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var jsonNull = []byte(`null`)

// ContentOrParts represents either a simple string content or an ordered
// collection of content parts. It serializes to a JSON string when only
// Content is set and to a JSON array otherwise.
type ContentOrParts struct {
	Content string        // Raw string content, used when the message is just text
	Parts   []ContentPart // Ordered content parts (text, image, tool use)
	_       struct{}      // require keyed usage
}

// IsText reports whether the content is a plain string rather than parts.
func (c ContentOrParts) IsText() bool {
	return c.Parts == nil
}

// MarshalJSON implements json.Marshaler for ContentOrParts.
// Returns the Content as a JSON string if it's non-empty,
// otherwise returns the Parts as a JSON array.
// Returns null if both Content and Parts are empty.
func (c ContentOrParts) MarshalJSON() ([]byte, error) {
	if strings.TrimSpace(c.Content) != "" {
		return json.Marshal(c.Content)
	}
	if c.Parts == nil {
		return jsonNull, nil
	}
	return json.Marshal(c.Parts)
}

// UnmarshalJSON implements json.Unmarshaler for ContentOrParts.
// Handles both string content and arrays of content parts. Parts with a type
// tag this package does not recognize are preserved as UnknownContentPart
// rather than failing the whole message.
func (c *ContentOrParts) UnmarshalJSON(input []byte) error {
	if !gjson.ValidBytes(input) {
		return fmt.Errorf("invalid json: %s", input)
	}
	jv := gjson.ParseBytes(input)
	if jv.IsArray() {
		aj := jv.Array()
		parts := make([]ContentPart, len(aj))
		for idx, ajv := range aj {
			tpe := ajv.Get("type").String()
			switch tpe {
			case "text":
				var part TextContentPart
				if err := part.UnmarshalJSON([]byte(ajv.Raw)); err != nil {
					return fmt.Errorf("invalid text part at %d: %w", idx, err)
				}
				parts[idx] = part
			case "image":
				var part ImageContentPart
				if err := part.UnmarshalJSON([]byte(ajv.Raw)); err != nil {
					return fmt.Errorf("invalid image part at %d: %w", idx, err)
				}
				parts[idx] = part
			case "tool_use":
				var part ToolUseContentPart
				if err := part.UnmarshalJSON([]byte(ajv.Raw)); err != nil {
					return fmt.Errorf("invalid tool_use part at %d: %w", idx, err)
				}
				parts[idx] = part
			default:
				parts[idx] = UnknownContentPart{Tag: tpe}
			}
		}
		c.Parts = parts
		return nil
	}
	c.Content = jv.String()
	return nil
}

// ContentPart is an interface that marks structs as valid content parts.
// Implementations include TextContentPart, ImageContentPart,
// ToolUseContentPart and UnknownContentPart.
type ContentPart interface {
	contentPart()
}

// Text creates a new TextContentPart with the given text.
func Text(text string) TextContentPart {
	return TextContentPart{Text: text}
}

// TextContentPart represents a text-only content part.
type TextContentPart struct {
	Text string   `json:"text"` // The actual text content
	_    struct{} // require keyed usage
}

func (TextContentPart) contentPart() {}

var tcpJSON = []byte(`{"type":"text"}`)

// MarshalJSON serializes the text content with a "type":"text" field.
func (t TextContentPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(tcpJSON, "text", t.Text)
}

// UnmarshalJSON validates and extracts the required 'text' field.
func (t *TextContentPart) UnmarshalJSON(input []byte) error {
	text := gjson.GetBytes(input, "text")
	if !text.Exists() {
		return errors.New("missing required field 'text'")
	}
	t.Text = text.String()
	return nil
}

// Image creates a new ImageContentPart with the given source reference.
func Image(source string) ImageContentPart {
	return ImageContentPart{Source: source}
}

// ImageContentPart represents an image content part referencing an image
// source (URL, object-store path, or data URI).
type ImageContentPart struct {
	Source string   `json:"source"` // Reference to the image data
	_      struct{} // require keyed usage
}

func (ImageContentPart) contentPart() {}

var icpJSON = []byte(`{"type":"image"}`)

// MarshalJSON serializes the image source with a "type":"image" field.
func (i ImageContentPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(icpJSON, "source", i.Source)
}

// UnmarshalJSON validates and extracts the required 'source' field.
func (i *ImageContentPart) UnmarshalJSON(input []byte) error {
	source := gjson.GetBytes(input, "source")
	if !source.Exists() {
		return errors.New("missing required field 'source'")
	}
	i.Source = source.String()
	return nil
}

// ToolUse creates a new ToolUseContentPart with the given tool name.
func ToolUse(name string) ToolUseContentPart {
	return ToolUseContentPart{Name: name}
}

// ToolUseContentPart represents a tool invocation content part. Only the
// tool name survives flattening for backends without native tool support.
type ToolUseContentPart struct {
	Name string   `json:"name"` // Name of the invoked tool
	_    struct{} // require keyed usage
}

func (ToolUseContentPart) contentPart() {}

var tucpJSON = []byte(`{"type":"tool_use"}`)

// MarshalJSON serializes the tool name with a "type":"tool_use" field.
func (t ToolUseContentPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(tucpJSON, "name", t.Name)
}

// UnmarshalJSON validates and extracts the required 'name' field.
func (t *ToolUseContentPart) UnmarshalJSON(input []byte) error {
	name := gjson.GetBytes(input, "name")
	if !name.Exists() {
		return errors.New("missing required field 'name'")
	}
	t.Name = name.String()
	return nil
}

// UnknownContentPart stands in for a content part whose type tag this
// package does not recognize. It is carried through rather than rejected so
// newer part kinds degrade gracefully.
type UnknownContentPart struct {
	Tag string   `json:"type"` // The unrecognized type tag, as received
	_   struct{} // require keyed usage
}

func (UnknownContentPart) contentPart() {}

// MarshalJSON serializes just the original type tag.
func (u UnknownContentPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "type", u.Tag)
}
