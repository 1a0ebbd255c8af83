package domain

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"
)

// DiagramType is the classified type of a mermaid block
type DiagramType string

const (
	DiagramSequence       DiagramType = "sequence"
	DiagramFlowchart      DiagramType = "flowchart"
	DiagramClass          DiagramType = "classDiagram"
	DiagramState          DiagramType = "stateDiagram"
	DiagramEntityRelation DiagramType = "entityRelation"
	DiagramGantt          DiagramType = "gantt"
	DiagramUnknown        DiagramType = "unknown"
)

// diagramKeywords is checked in order; first prefix match wins.
var diagramKeywords = []struct {
	prefix string
	typ    DiagramType
}{
	{"sequenceDiagram", DiagramSequence},
	{"flowchart", DiagramFlowchart},
	{"graph", DiagramFlowchart},
	{"classDiagram", DiagramClass},
	{"stateDiagram", DiagramState},
	{"erDiagram", DiagramEntityRelation},
	{"gantt", DiagramGantt},
}

var (
	mermaidBlockRegex = regexp.MustCompile("(?s)```mermaid\r?\n(.*?)```")

	participantRegex = regexp.MustCompile(`participant\s+(\w+)`)
	messageRegex     = regexp.MustCompile(`(\w+)\s*->>?\+?\s*(\w+)`)
	arrowRegex       = regexp.MustCompile(`->>?`)
	shapeNodeRegex   = regexp.MustCompile(`(\w+)[\[({]`)
)

// DiagramBlock is a raw fenced diagram block found in a document
type DiagramBlock struct {
	Code      string
	StartLine int
}

// DiagramRecord is the parsed metadata of one diagram block
type DiagramRecord struct {
	Type      DiagramType `json:"type"`
	StartLine int         `json:"startLine"`

	// sequence
	Participants []string `json:"participants,omitempty"`
	MessageCount int      `json:"messageCount,omitempty"`

	// flowchart
	Nodes []string `json:"nodes,omitempty"`
}

// MarshalJSON emits the type-specific fields only for the type they belong to
func (d DiagramRecord) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case DiagramSequence:
		return json.Marshal(struct {
			Type         DiagramType `json:"type"`
			StartLine    int         `json:"startLine"`
			Participants []string    `json:"participants"`
			MessageCount int         `json:"messageCount"`
		}{d.Type, d.StartLine, nonNil(d.Participants), d.MessageCount})
	case DiagramFlowchart:
		return json.Marshal(struct {
			Type      DiagramType `json:"type"`
			StartLine int         `json:"startLine"`
			Nodes     []string    `json:"nodes"`
		}{d.Type, d.StartLine, nonNil(d.Nodes)})
	default:
		return json.Marshal(struct {
			Type      DiagramType `json:"type"`
			StartLine int         `json:"startLine"`
		}{d.Type, d.StartLine})
	}
}

// Mentions reports whether id is one of the diagram's participants or nodes
func (d DiagramRecord) Mentions(id string) bool {
	return slices.Contains(d.Participants, id) || slices.Contains(d.Nodes, id)
}

// ExtractDiagramBlocks returns every mermaid block in content, in order of appearance.
// StartLine is the 1-based line of the opening fence.
func ExtractDiagramBlocks(content string) []DiagramBlock {
	matches := mermaidBlockRegex.FindAllStringSubmatchIndex(content, -1)
	blocks := make([]DiagramBlock, 0, len(matches))

	for _, m := range matches {
		blocks = append(blocks, DiagramBlock{
			Code:      content[m[2]:m[3]],
			StartLine: strings.Count(content[:m[0]], "\n") + 1,
		})
	}

	return blocks
}

// ClassifyDiagram determines the diagram type from the first line of the block
func ClassifyDiagram(code string) DiagramType {
	firstLine, _, _ := strings.Cut(strings.TrimSpace(code), "\n")
	firstLine = strings.TrimSpace(firstLine)

	for _, kw := range diagramKeywords {
		if strings.HasPrefix(firstLine, kw.prefix) {
			return kw.typ
		}
	}
	return DiagramUnknown
}

// ParseDiagram classifies a block and extracts its type-specific identifiers.
// StartLine is left zero; the caller knows where the block came from.
func ParseDiagram(code string) DiagramRecord {
	rec := DiagramRecord{Type: ClassifyDiagram(code)}

	switch rec.Type {
	case DiagramSequence:
		var participants orderedSet
		for _, m := range participantRegex.FindAllStringSubmatch(code, -1) {
			participants.add(m[1])
		}
		for _, m := range messageRegex.FindAllStringSubmatch(code, -1) {
			participants.add(m[1])
			participants.add(m[2])
		}
		rec.Participants = participants.items()
		rec.MessageCount = len(arrowRegex.FindAllStringIndex(code, -1))

	case DiagramFlowchart:
		var nodes orderedSet
		for _, m := range shapeNodeRegex.FindAllStringSubmatch(code, -1) {
			nodes.add(m[1])
		}
		rec.Nodes = nodes.items()
	}

	return rec
}

// ParseDiagramDocument extracts and parses every block of a markdown document
func ParseDiagramDocument(content string) []DiagramRecord {
	blocks := ExtractDiagramBlocks(content)
	if len(blocks) == 0 {
		return nil
	}

	diagrams := make([]DiagramRecord, 0, len(blocks))
	for _, b := range blocks {
		rec := ParseDiagram(b.Code)
		rec.StartLine = b.StartLine
		diagrams = append(diagrams, rec)
	}
	return diagrams
}

// orderedSet deduplicates strings keeping first-seen order
type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) items() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
