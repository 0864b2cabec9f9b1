// Package sources locates textbook PDF documents for ingestion.
package sources

import (
	"context"
	"strings"
)

// Source enumerates PDF documents and makes them readable as local files.
type Source interface {
	// List returns the names of available PDF documents. A missing or
	// empty location returns an empty list, not an error.
	List(ctx context.Context) ([]string, error)

	// Fetch makes the named document available on the local filesystem
	// and returns its path.
	Fetch(ctx context.Context, name string) (string, error)
}

func isPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
