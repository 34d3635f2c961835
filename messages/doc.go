// Package messages defines the normalized conversation representation shared
// by all provider adapters: a message with a user or assistant role whose
// content is either a plain string or an ordered sequence of content parts
// (text, image references, tool invocations).
//
// Design decisions:
//   - Flexible content: ContentOrParts serializes as a bare JSON string for
//     simple text and as an array for structured content
//   - Lenient decoding: unrecognized part type tags round-trip as
//     UnknownContentPart instead of failing the whole message
//   - JSON interop: custom codecs built on gjson/sjson for field-level control
//   - Keyed initialization enforced via struct{} padding fields
//
// Example usage:
//
//	// Simple text message
//	msg := messages.User("Hello, world!")
//
//	// Multi-part message with text and an image reference
//	msg := messages.UserParts(
//	    messages.Text("Check out this image:"),
//	    messages.Image("s3://bucket/image.jpg"),
//	)
//
// Provider adapters consume these values read-only; backends that do not
// accept structured content flatten the parts into a display string.
package messages
