// Package tracing provides OpenTelemetry tracing integration.
//
// GetTracer returns the application tracer used by the catalog service to wrap
// each use case in a span. InitProvider installs an SDK tracer provider (with an
// optional stdout exporter) and the W3C trace-context propagator. Middleware
// starts a server span per HTTP request.
//
// Example usage:
//
//	shutdown, err := tracing.InitProvider(ctx, tracing.ProviderConfig{ServiceName: "periodical-api"})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "catalog.AddArticle")
//	defer span.End()
package tracing
