// Package testutil contains helper builders used across tests to reduce
// boilerplate when scripting model responses, tool calls and run inputs.
// They are not intended for production usage.
package testutil
