// Copyright 2018 Brian Starkey <stark3y@gmail.com>

// Package fsm is the behaviour state machine for the cat-follow car.
// Transitions are a flat table keyed on (state, event); pairs not in the
// table leave the state untouched.
package fsm

type State int

const (
	Idle State = iota
	GotoTarget
	Search
	Approach
	Track
	LostSearch
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GotoTarget:
		return "goto_target"
	case Search:
		return "search"
	case Approach:
		return "approach"
	case Track:
		return "track"
	case LostSearch:
		return "lost_search"
	}
	return "unknown"
}

type Event int

const (
	CatLocationReceived Event = iota
	AtTarget
	Timeout
	CatFound
	CatLost
	DistanceReached
	StopCommand
	SearchCycleDone
)

func (e Event) String() string {
	switch e {
	case CatLocationReceived:
		return "cat_location_received"
	case AtTarget:
		return "at_target"
	case Timeout:
		return "timeout"
	case CatFound:
		return "cat_found"
	case CatLost:
		return "cat_lost"
	case DistanceReached:
		return "distance_reached"
	case StopCommand:
		return "stop_command"
	case SearchCycleDone:
		return "search_cycle_done"
	}
	return "unknown"
}

type stateEvent struct {
	s State
	e Event
}

var transitions = map[stateEvent]State{
	{Idle, CatLocationReceived}:   GotoTarget,
	{Idle, StopCommand}:           Idle,
	{GotoTarget, AtTarget}:        Search,
	{GotoTarget, CatFound}:        Approach,
	{GotoTarget, Timeout}:         Search,
	{GotoTarget, StopCommand}:     Idle,
	{Search, CatFound}:            Approach,
	{Search, SearchCycleDone}:     Idle,
	{Search, StopCommand}:         Idle,
	{Approach, DistanceReached}:   Track,
	{Approach, CatLost}:           LostSearch,
	{Approach, StopCommand}:       Idle,
	{Track, CatLost}:              LostSearch,
	{Track, StopCommand}:          Idle,
	{LostSearch, CatFound}:        Approach,
	{LostSearch, SearchCycleDone}: Idle,
	{LostSearch, Timeout}:         Search,
	{LostSearch, StopCommand}:     Idle,
}

// Machine holds the current state plus the payloads that arrive with
// CAT_LOCATION_RECEIVED (target, meters) and CAT_FOUND (bbox, pixels).
type Machine struct {
	state State

	targetX, targetY float64
	hasTarget        bool

	bbox    [4]float64
	hasBBox bool
}

func NewMachine() *Machine {
	return &Machine{}
}

func (m *Machine) State() State {
	return m.state
}

// Target returns the stored goal in meters.
func (m *Machine) Target() (x, y float64, ok bool) {
	return m.targetX, m.targetY, m.hasTarget
}

// LastBBox returns the bbox stored by the most recent CAT_FOUND.
func (m *Machine) LastBBox() (x, y, w, h float64, ok bool) {
	return m.bbox[0], m.bbox[1], m.bbox[2], m.bbox[3], m.hasBBox
}

// Dispatch applies ev to the current state and returns the new state.
// Unknown (state, event) pairs change nothing. Payload is interpreted per
// event: (x, y) meters for CatLocationReceived, (x, y, w, h) pixels for
// CatFound. Returning to Idle clears the stored target and bbox.
func (m *Machine) Dispatch(ev Event, payload ...float64) State {
	next, ok := transitions[stateEvent{m.state, ev}]
	if !ok {
		return m.state
	}

	m.state = next

	switch ev {
	case CatLocationReceived:
		if len(payload) >= 2 {
			m.targetX, m.targetY = payload[0], payload[1]
			m.hasTarget = true
		}
	case CatFound:
		if len(payload) >= 4 {
			copy(m.bbox[:], payload[:4])
			m.hasBBox = true
		}
	}

	if m.state == Idle {
		m.clear()
	}

	return m.state
}

// ResetToIdle forces Idle and drops both payloads.
func (m *Machine) ResetToIdle() {
	m.state = Idle
	m.clear()
}

func (m *Machine) clear() {
	m.hasTarget = false
	m.targetX, m.targetY = 0, 0
	m.hasBBox = false
	m.bbox = [4]float64{}
}
