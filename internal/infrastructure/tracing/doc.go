/*
Package tracing provides lightweight request tracing.

# Overview

Every HTTP request gets a span with a ULID trace id. A front end that
already carries a trace (X-Trace-ID / X-Span-ID headers) is continued
instead of restarted, and the ids are echoed back on the response so a
failed command can be found in the backend log.

# Usage

	tracer := tracing.New("klin-backend", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "backup_notes")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

Spans are buffered (1000) and logged asynchronously: successful spans at
debug level, failures at warn.
*/
package tracing
