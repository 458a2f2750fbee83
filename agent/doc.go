// Package agent implements agentic mode: a language model is given the
// event-post tools and decides which to call and in which order.
//
// Execution model:
//   - The opening user turn is the goal (see DefaultGoal); the tool table is
//     sent on every turn.
//   - Each requested call is resolved and validated by tool.Registry before it
//     runs. Tools read image bytes and prior results from the run State, never
//     from model arguments.
//   - The loop ends when the model answers without tool calls. At most
//     MaxToolCalls tools run per submission.
//   - The final output is the post written by generate_linkedin_post when that
//     tool ran, otherwise the model's closing text.
package agent
