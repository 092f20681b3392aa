package model

import (
	"encoding/json"
	"sort"
)

// NodeState is the visible state of an active node. For input nodes Value and
// Activation both hold the input value; for computed nodes Value is the
// weighted sum.
type NodeState struct {
	Value      float64 `json:"value"`
	Activation float64 `json:"activation"`
}

// ActivationState is the cumulative set of nodes and edges marked active as
// of one trace step.
type ActivationState struct {
	Nodes map[NodeID]NodeState
	Edges map[EdgeID]bool
}

func NewActivationState() ActivationState {
	return ActivationState{
		Nodes: make(map[NodeID]NodeState),
		Edges: make(map[EdgeID]bool),
	}
}

// Clone returns an independent copy.
func (s ActivationState) Clone() ActivationState {
	out := ActivationState{
		Nodes: make(map[NodeID]NodeState, len(s.Nodes)),
		Edges: make(map[EdgeID]bool, len(s.Edges)),
	}
	for id, node := range s.Nodes {
		out.Nodes[id] = node
	}
	for id, active := range s.Edges {
		out.Edges[id] = active
	}
	return out
}

func (s ActivationState) ActivateNode(id NodeID, state NodeState) {
	s.Nodes[id] = state
}

func (s ActivationState) ActivateEdge(id EdgeID) {
	s.Edges[id] = true
}

func (s ActivationState) NodeActive(id NodeID) bool {
	_, ok := s.Nodes[id]
	return ok
}

func (s ActivationState) EdgeActive(id EdgeID) bool {
	return s.Edges[id]
}

// ActiveNodes lists active node ids in layer/index order.
func (s ActivationState) ActiveNodes() []NodeID {
	out := make([]NodeID, 0, len(s.Nodes))
	for id := range s.Nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// ActiveEdges lists active edge ids in source/target order.
func (s ActivationState) ActiveEdges() []EdgeID {
	out := make([]EdgeID, 0, len(s.Edges))
	for id, active := range s.Edges {
		if active {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

type activationStateJSON struct {
	Nodes map[NodeID]NodeState `json:"nodes"`
	Edges []EdgeID             `json:"edges"`
}

func (s ActivationState) MarshalJSON() ([]byte, error) {
	nodes := s.Nodes
	if nodes == nil {
		nodes = map[NodeID]NodeState{}
	}
	return json.Marshal(activationStateJSON{Nodes: nodes, Edges: s.ActiveEdges()})
}

func (s *ActivationState) UnmarshalJSON(data []byte) error {
	var raw activationStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewActivationState()
	for id, node := range raw.Nodes {
		out.Nodes[id] = node
	}
	for _, id := range raw.Edges {
		out.Edges[id] = true
	}
	*s = out
	return nil
}
