// Package slogx provides small helpers for building log/slog attributes.
package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr with key "error" and the error's message as the
// value.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// ByteString creates a slog.Attr with the given key and the string
// representation of the byte slice value.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// Stringer creates a slog.Attr with the provided key and the string
// representation of the given fmt.Stringer value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}
