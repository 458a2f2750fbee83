// Package diagram renders orchestration topologies as Mermaid flowcharts.
package diagram

import (
	"fmt"
	"strings"
)

// Shape selects the Mermaid node syntax.
type Shape int

const (
	// ShapeBox renders id[label].
	ShapeBox Shape = iota
	// ShapeTerminal renders id([label]).
	ShapeTerminal
	// ShapeDecision renders id{{label}}.
	ShapeDecision
)

// Start and End are the conventional terminal node ids.
const (
	Start = "__start__"
	End   = "__end__"
)

// Flowchart accumulates nodes and edges in insertion order.
type Flowchart struct {
	direction string
	nodes     []node
	edges     []edge
	seen      map[string]bool
}

type node struct {
	id, label string
	shape     Shape
}

type edge struct {
	from, to, label string
	dotted          bool
}

// New returns a top-down flowchart.
func New() *Flowchart {
	return &Flowchart{direction: "TD", seen: map[string]bool{}}
}

// Node declares a node once; later declarations of the same id are ignored.
func (f *Flowchart) Node(id, label string, shape Shape) *Flowchart {
	if f.seen[id] {
		return f
	}

	f.seen[id] = true
	f.nodes = append(f.nodes, node{id: id, label: label, shape: shape})

	return f
}

// Edge adds a solid edge with an optional label.
func (f *Flowchart) Edge(from, to, label string) *Flowchart {
	f.edges = append(f.edges, edge{from: from, to: to, label: label})
	return f
}

// DottedEdge adds a dotted edge with an optional label.
func (f *Flowchart) DottedEdge(from, to, label string) *Flowchart {
	f.edges = append(f.edges, edge{from: from, to: to, label: label, dotted: true})
	return f
}

// String renders the Mermaid source.
func (f *Flowchart) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "flowchart %s\n", f.direction)

	for _, n := range f.nodes {
		label := escape(n.label)

		switch n.shape {
		case ShapeTerminal:
			fmt.Fprintf(&b, "    %s([\"%s\"])\n", n.id, label)
		case ShapeDecision:
			fmt.Fprintf(&b, "    %s{{\"%s\"}}\n", n.id, label)
		default:
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", n.id, label)
		}
	}

	for _, e := range f.edges {
		arrow := "-->"
		if e.dotted {
			arrow = "-.->"
		}

		if e.label != "" {
			fmt.Fprintf(&b, "    %s %s|%s| %s\n", e.from, arrow, escape(e.label), e.to)
			continue
		}

		fmt.Fprintf(&b, "    %s %s %s\n", e.from, arrow, e.to)
	}

	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
