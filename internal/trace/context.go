package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	partTagKey contextKey = "part_tag"
)

// GenerateRunID generates a unique scan run ID in format "run-XXXXXX"
func GenerateRunID() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "run-000000"
	}
	return "run-" + hex.EncodeToString(b)
}

// PartTag formats the tag of partition i (0-based) out of n, e.g. "2/4"
func PartTag(i, n int) string {
	return fmt.Sprintf("%d/%d", i+1, n)
}

// WithRunID adds run ID to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID retrieves run ID from context
func GetRunID(ctx context.Context) string {
	if v := ctx.Value(runIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// WithPartTag adds the partition tag to context
func WithPartTag(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, partTagKey, tag)
}

// GetPartTag retrieves the partition tag from context
func GetPartTag(ctx context.Context) string {
	if v := ctx.Value(partTagKey); v != nil {
		return v.(string)
	}
	return ""
}

// Logger returns the global logger annotated with the run ID and partition
// tag found in ctx
func Logger(ctx context.Context) zerolog.Logger {
	lc := log.With()
	if runID := GetRunID(ctx); runID != "" {
		lc = lc.Str("run", runID)
	}
	if tag := GetPartTag(ctx); tag != "" {
		lc = lc.Str("part", tag)
	}
	return lc.Logger()
}
