package sessions

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type Repository interface {
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	// SetAll replaces the namespace with values in one step.
	SetAll(ctx context.Context, namespace string, values map[string][]byte) error
	List(ctx context.Context, namespace string) (map[string][]byte, error)
	Clear(ctx context.Context, namespace string) error
	// Purge drops namespaces not written since before and reports how many
	// values went with them. Namespaces in keep are retained and count as
	// written now.
	Purge(ctx context.Context, before time.Time, keep ...string) (int64, error)
	Close() error
}

// placeholders returns n bind markers. With "$" they are numbered from $2,
// $1 being taken by the statement's first argument.
func placeholders(n int, marker string) string {
	parts := make([]string, n)
	for i := range parts {
		if marker == "$" {
			parts[i] = "$" + strconv.Itoa(i+2)
		} else {
			parts[i] = marker
		}
	}
	return strings.Join(parts, ", ")
}
