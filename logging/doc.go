// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the pipeline, the agent loop and the service adapters use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - New, building a JSON, text or tint (colourised console) handler from Config
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.Config{Level: logging.LogLevelDebug, Format: "tint"})
//	graph := pipeline.NewGraph(extractor, generator, func(o *pipeline.Options) { o.Logger = logger })
//
// Event names follow a dotted "component.subject.verb" scheme, e.g.
// "pipeline.stage.completed" or "agent.tool.executed".
package logging
