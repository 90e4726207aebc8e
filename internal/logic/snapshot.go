package logic

// Snapshot is the derived read view of the debugger, recomputed from the
// cursor position. In the sentinel state (no steps, or cursor -1) Active is
// false and every set is empty, leaving the plain graph view.
type Snapshot struct {
	Active          bool            `json:"active"`
	State           PlaybackState   `json:"state"`
	StepIndex       int             `json:"stepIndex"`
	StepCount       int             `json:"stepCount"`
	CurrentNodeID   string          `json:"currentNodeId,omitempty"`
	ExecutedNodeIDs map[string]bool `json:"executedNodeIds,omitempty"`
	PathNodeIDs     map[string]bool `json:"pathNodeIds,omitempty"`
	ErrorNodeIDs    map[string]bool `json:"errorNodeIds,omitempty"`
	Step            *ExecutionStep  `json:"step,omitempty"`
}

// NodeState is the per-node debug state consumed by rendering.
type NodeState struct {
	IsCurrent  bool           `json:"isCurrent"`
	IsExecuted bool           `json:"isExecuted"`
	IsOnPath   bool           `json:"isOnPath"`
	IsError    bool           `json:"isError"`
	IsPending  bool           `json:"isPending"`
	Step       *ExecutionStep `json:"step,omitempty"`
}

func (d *Debugger) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Debugger) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     d.state,
		StepIndex: d.index,
		StepCount: len(d.steps),
	}
	if d.index < 0 || d.index >= len(d.steps) {
		return snap
	}
	snap.Active = true

	step := d.steps[d.index]
	snap.Step = &step
	snap.CurrentNodeID = d.nodeMap.Resolve(step.NodeID)

	snap.ExecutedNodeIDs = make(map[string]bool, d.index)
	for i := 0; i < d.index; i++ {
		snap.ExecutedNodeIDs[d.nodeMap.Resolve(d.steps[i].NodeID)] = true
	}

	snap.ErrorNodeIDs = map[string]bool{}
	for _, s := range d.steps {
		if s.Error != "" {
			snap.ErrorNodeIDs[d.nodeMap.Resolve(s.NodeID)] = true
		}
	}

	snap.PathNodeIDs = map[string]bool{}
	for id := snap.CurrentNodeID; id != "" && !snap.PathNodeIDs[id]; id = d.parents[id] {
		snap.PathNodeIDs[id] = true
	}

	return snap
}

// NodeState derives one node's debug flags from the snapshot. Everything is
// false outside an active session.
func (s Snapshot) NodeState(id string) NodeState {
	if !s.Active {
		return NodeState{}
	}
	ns := NodeState{
		IsCurrent:  id == s.CurrentNodeID,
		IsExecuted: s.ExecutedNodeIDs[id],
		IsOnPath:   s.PathNodeIDs[id],
		IsError:    s.ErrorNodeIDs[id],
	}
	ns.IsPending = !ns.IsCurrent && !ns.IsExecuted && !ns.IsOnPath && !ns.IsError
	if ns.IsCurrent {
		ns.Step = s.Step
	}
	return ns
}
