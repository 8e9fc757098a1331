package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kronoshq/kronos/pkg/llm"
	"github.com/kronoshq/kronos/pkg/mutation"
)

// State is the lifecycle of a streaming accumulation.
type State int

const (
	// StateAccumulating means fragments are still arriving.
	StateAccumulating State = iota

	// StateComplete means the stream finished and every tool call parsed
	// into a valid mutation.
	StateComplete

	// StateFailed means the stream finished but at least one tool call
	// could not be assembled into a valid mutation.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type partialCall struct {
	id   string
	name string
	args strings.Builder
}

// Accumulator assembles streamed tool-call fragments into complete, typed
// mutations. The core never sees partial data: only once the final chunk
// arrives and every call's arguments parse does Mutations return anything.
type Accumulator struct {
	state State
	calls map[int]*partialCall
	text  strings.Builder
	err   error

	mutations []mutation.Mutation
}

// NewAccumulator returns an empty accumulator in the accumulating state.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		state: StateAccumulating,
		calls: make(map[int]*partialCall),
	}
}

// Feed consumes one stream chunk. Feeding after the stream has finished is
// ignored.
func (a *Accumulator) Feed(chunk llm.StreamChunk) {
	if a.state != StateAccumulating {
		return
	}

	a.text.WriteString(chunk.Text)

	if delta := chunk.ToolCall; delta != nil {
		call, ok := a.calls[delta.Index]
		if !ok {
			call = &partialCall{}
			a.calls[delta.Index] = call
		}
		if delta.ID != "" {
			call.id = delta.ID
		}
		if delta.Name != "" {
			call.name = delta.Name
		}
		call.args.WriteString(delta.ArgumentsFragment)
	}

	if chunk.Done {
		a.finalize()
	}
}

// State reports the current lifecycle state.
func (a *Accumulator) State() State {
	return a.state
}

// Text returns the assistant's accumulated plain-text content.
func (a *Accumulator) Text() string {
	return a.text.String()
}

// Mutations returns the assembled mutations once the stream is complete.
// It errors while still accumulating and reports the assembly failure after
// a failed stream.
func (a *Accumulator) Mutations() ([]mutation.Mutation, error) {
	switch a.state {
	case StateAccumulating:
		return nil, fmt.Errorf("stream still accumulating")
	case StateFailed:
		return nil, a.err
	default:
		return a.mutations, nil
	}
}

func (a *Accumulator) finalize() {
	indexes := make([]int, 0, len(a.calls))
	for idx := range a.calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	mutations := make([]mutation.Mutation, 0, len(indexes))
	for _, idx := range indexes {
		call := a.calls[idx]
		m, err := mutation.FromToolCall(call.name, []byte(call.args.String()))
		if err != nil {
			a.state = StateFailed
			a.err = fmt.Errorf("assembling tool call %d (%s): %w", idx, call.name, err)
			return
		}
		mutations = append(mutations, m)
	}

	a.mutations = mutations
	a.state = StateComplete
}
