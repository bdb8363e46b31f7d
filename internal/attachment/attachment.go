// Package attachment stores invoice documents and payment slips.
package attachment

import (
	"context"
	"errors"
	"io"
	"strings"
)

const (
	DefaultSupplier = "Outros"
	DefaultNumber   = "SN"
	DefaultDueDate  = "SD"
)

var (
	ErrInvalidFile = errors.New("invalid_file")
	ErrTooLarge    = errors.New("file_too_large")
)

// Store writes an object under key and returns its public URL. Writing an
// existing key replaces it.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Sanitize replaces every rune outside [A-Za-z0-9] with an underscore.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, value)
}

// ObjectKey builds "{supplier}/{number}_{due}_{filename}" with every part
// sanitized. Blank parts take the upload defaults.
func ObjectKey(supplier, number, dueDate, filename string) string {
	supplier = orDefault(supplier, DefaultSupplier)
	number = orDefault(number, DefaultNumber)
	dueDate = orDefault(dueDate, DefaultDueDate)
	return Sanitize(supplier) + "/" + Sanitize(number) + "_" + Sanitize(dueDate) + "_" + Sanitize(filename)
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
