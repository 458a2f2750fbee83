// Package core provides the foundational domain types shared by the linear
// pipeline and the agent loop. It defines:
//
//   - State, the versioned per-run record threaded through every stage and tool
//   - Field, naming each State field so stages and tools can declare reads/writes
//   - Content / Part, the role-based message model exchanged with language models
//   - ToolContext, the scoped surface handed to tool implementations
//   - CallBudget, the mandatory cap on agent tool invocations
//   - The error taxonomy (ExternalServiceError, MissingInputWarning,
//     ToolInvocationError, LoopBudgetExceeded)
//
// Nothing here talks to the network; service adapters live in vision and model.
package core
