package database

import (
	"context"
	"time"
)

// Common timeout durations for database operations
const (
	// ShortTimeout for single-document reads and writes
	ShortTimeout = 5 * time.Second

	// MediumTimeout for queries that return many documents
	MediumTimeout = 10 * time.Second

	// LongTimeout for bulk writes
	LongTimeout = 30 * time.Second
)

// WithShortTimeout bounds ctx by ShortTimeout
func WithShortTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, ShortTimeout)
}

// WithMediumTimeout bounds ctx by MediumTimeout
func WithMediumTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, MediumTimeout)
}

// WithLongTimeout bounds ctx by LongTimeout
func WithLongTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, LongTimeout)
}
