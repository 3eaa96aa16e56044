package logs

import (
	"context"
	"crypto/rand"
)

// NewSpan starts a span under parent, or under the span of ctx if parent is empty.
// attrs are logged with the span creation record.
type NewSpan func(ctx context.Context, parent Span, attrs ...any) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span, attrs ...any) (context.Context, Span) {

		// creator
		creatorSpan := SpanOf(ctx)
		if parent == "" {
			parent = creatorSpan
		}

		// span
		span := Span(rand.Text())
		ctx = context.WithValue(ctx, SpanKey, span)

		// logs
		var args []any
		if creatorSpan != "" && creatorSpan != parent {
			args = append(args, "creator", creatorSpan)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		args = append(args, attrs...)
		logger.InfoContext(ctx, "new span", args...)

		return ctx, span
	}
}
