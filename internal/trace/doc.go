// Package trace records where minic spends its time.
//
// Tracing is off by default. Enable it from the command line:
//
//	minic check --trace=- --trace-level=phase src/
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory and dumps them on exit
//   - MultiTracer: fans out to several tracers
//
// Events carry a Scope. The Level decides which scopes are emitted:
// phase shows driver and pass boundaries, detail adds per-file events,
// debug shows everything.
//
// Tracers travel through the pipeline in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", 0)
//	defer span.End("")
package trace
