// Package model defines the provider-agnostic abstractions for talking to
// hosted language models.
//
// Core goals:
//   - A single synchronous Generate call per request (no streaming)
//   - Normalize tool / function call representation (ToolDefinition, core.FunctionCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers live in sub-packages: openai (OpenAI and OpenAI-compatible
// endpoints such as Groq), anthropic and gemini.
package model
