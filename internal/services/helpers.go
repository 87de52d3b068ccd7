package services

import (
	"context"
	"strings"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// distinct keeps the first occurrence of every accepted value, in input order.
func distinct[T comparable](values []T, accept func(T) bool) []T {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, value := range values {
		if !accept(value) {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// chunks splits values into consecutive slices of at most size elements.
func chunks[T any](values []T, size int) [][]T {
	if size <= 0 {
		size = len(values)
	}
	var out [][]T
	for len(values) > 0 {
		n := min(size, len(values))
		out = append(out, values[:n:n])
		values = values[n:]
	}
	return out
}

func distinctPositive(ids []int64) []int64 {
	return distinct(ids, func(id int64) bool { return id > 0 })
}

// distinctKeys trims every key and drops blanks and repeats.
func distinctKeys(keys []string) []string {
	trimmed := make([]string, len(keys))
	for i, key := range keys {
		trimmed[i] = strings.TrimSpace(key)
	}
	return distinct(trimmed, func(key string) bool { return key != "" })
}

func trimmedOrNil(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
