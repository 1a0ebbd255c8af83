package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedGraph is wrapped by every ParseCanvas failure
var ErrMalformedGraph = errors.New("malformed graph document")

// GraphContent is the normalized node/edge list of a graph document
type GraphContent struct {
	Nodes []string
	Edges []GraphEdge
}

// canvasFile holds the consumed subset of the JSON Canvas format
type canvasFile struct {
	Nodes *[]canvasNode `json:"nodes"`
	Edges *[]canvasEdge `json:"edges"`
}

type canvasNode struct {
	ID *string `json:"id"`
}

type canvasEdge struct {
	FromNode *string `json:"fromNode"`
	ToNode   *string `json:"toNode"`
}

// ParseCanvas parses a JSON Canvas document, preserving source order
func ParseCanvas(content []byte) (GraphContent, error) {
	var data canvasFile
	if err := json.Unmarshal(content, &data); err != nil {
		return GraphContent{}, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	if data.Nodes == nil {
		return GraphContent{}, fmt.Errorf("%w: missing nodes", ErrMalformedGraph)
	}
	if data.Edges == nil {
		return GraphContent{}, fmt.Errorf("%w: missing edges", ErrMalformedGraph)
	}

	graph := GraphContent{
		Nodes: make([]string, 0, len(*data.Nodes)),
		Edges: make([]GraphEdge, 0, len(*data.Edges)),
	}

	for i, n := range *data.Nodes {
		if n.ID == nil {
			return GraphContent{}, fmt.Errorf("%w: node %d has no id", ErrMalformedGraph, i)
		}
		graph.Nodes = append(graph.Nodes, *n.ID)
	}

	for i, e := range *data.Edges {
		if e.FromNode == nil || e.ToNode == nil {
			return GraphContent{}, fmt.Errorf("%w: edge %d is missing an endpoint", ErrMalformedGraph, i)
		}
		graph.Edges = append(graph.Edges, GraphEdge{From: *e.FromNode, To: *e.ToNode})
	}

	return graph, nil
}
