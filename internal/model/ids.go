package model

import (
	"fmt"
	"strconv"
	"strings"
)

type LayerKind int

const (
	LayerInput LayerKind = iota
	LayerHidden
	LayerOutput
)

func (k LayerKind) String() string {
	switch k {
	case LayerInput:
		return "input"
	case LayerHidden:
		return "hidden"
	case LayerOutput:
		return "output"
	default:
		return fmt.Sprintf("layer(%d)", int(k))
	}
}

func (k LayerKind) MarshalText() ([]byte, error) {
	switch k {
	case LayerInput, LayerHidden, LayerOutput:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown layer kind: %d", int(k))
	}
}

func (k *LayerKind) UnmarshalText(text []byte) error {
	parsed, err := ParseLayerKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseLayerKind(name string) (LayerKind, error) {
	switch name {
	case "input":
		return LayerInput, nil
	case "hidden":
		return LayerHidden, nil
	case "output":
		return LayerOutput, nil
	default:
		return 0, fmt.Errorf("unknown layer kind: %q", name)
	}
}

// NodeID identifies a neuron by layer and position within that layer.
type NodeID struct {
	Layer LayerKind
	Index int
}

func InputNode(i int) NodeID  { return NodeID{Layer: LayerInput, Index: i} }
func HiddenNode(i int) NodeID { return NodeID{Layer: LayerHidden, Index: i} }
func OutputNode(i int) NodeID { return NodeID{Layer: LayerOutput, Index: i} }

// String renders the id as "<layer>-<index>", e.g. "hidden-2".
func (n NodeID) String() string {
	return n.Layer.String() + "-" + strconv.Itoa(n.Index)
}

// Less orders nodes by layer, then by index.
func (n NodeID) Less(other NodeID) bool {
	if n.Layer != other.Layer {
		return n.Layer < other.Layer
	}
	return n.Index < other.Index
}

func (n NodeID) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *NodeID) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeID(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func ParseNodeID(raw string) (NodeID, error) {
	layer, index, ok := strings.Cut(raw, "-")
	if !ok {
		return NodeID{}, fmt.Errorf("malformed node id: %q", raw)
	}
	kind, err := ParseLayerKind(layer)
	if err != nil {
		return NodeID{}, err
	}
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 {
		return NodeID{}, fmt.Errorf("malformed node index in %q", raw)
	}
	return NodeID{Layer: kind, Index: i}, nil
}

// EdgeID identifies a connection as an ordered pair of endpoints.
type EdgeID struct {
	From NodeID
	To   NodeID
}

func Edge(from, to NodeID) EdgeID {
	return EdgeID{From: from, To: to}
}

// String renders the edge as "<from>-<to>", e.g. "input-0-hidden-3".
func (e EdgeID) String() string {
	return e.From.String() + "-" + e.To.String()
}

func (e EdgeID) Less(other EdgeID) bool {
	if e.From != other.From {
		return e.From.Less(other.From)
	}
	return e.To.Less(other.To)
}

func (e EdgeID) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EdgeID) UnmarshalText(text []byte) error {
	parsed, err := ParseEdgeID(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func ParseEdgeID(raw string) (EdgeID, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 4 {
		return EdgeID{}, fmt.Errorf("malformed edge id: %q", raw)
	}
	from, err := ParseNodeID(parts[0] + "-" + parts[1])
	if err != nil {
		return EdgeID{}, err
	}
	to, err := ParseNodeID(parts[2] + "-" + parts[3])
	if err != nil {
		return EdgeID{}, err
	}
	return EdgeID{From: from, To: to}, nil
}
