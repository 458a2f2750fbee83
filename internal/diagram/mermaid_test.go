package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlowchart_String(t *testing.T) {
	got := New().
		Node(Start, "START", ShapeTerminal).
		Node("extract", "Extract", ShapeBox).
		Node("extract", "ignored", ShapeBox).
		Node("agent", `say "hi"`, ShapeDecision).
		Edge(Start, "extract", "").
		DottedEdge("extract", "agent", "no image").
		String()

	want := "flowchart TD\n" +
		"    __start__([\"START\"])\n" +
		"    extract[\"Extract\"]\n" +
		"    agent{{\"say #quot;hi#quot;\"}}\n" +
		"    __start__ --> extract\n" +
		"    extract -.->|no image| agent\n"

	assert.Equal(t, want, got)
}
