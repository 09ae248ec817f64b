package app

import "fmt"

// Status is the state of map generation.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Event drives a Status transition.
type Event int

const (
	EventStart Event = iota
	EventSucceed
	EventFail
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventSucceed:
		return "succeed"
	case EventFail:
		return "fail"
	case EventReset:
		return "reset"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Apply returns the status reached from s on e. Transitions not in the table
// leave s unchanged and report false.
//
//	idle    --start-->   pending
//	pending --start-->   pending (overlapping generation)
//	pending --succeed--> success
//	pending --fail-->    error
//	success|error --start--> pending
//	success|error --reset--> idle
func (s Status) Apply(e Event) (Status, bool) {
	switch e {
	case EventStart:
		return StatusPending, true
	case EventSucceed:
		if s == StatusPending {
			return StatusSuccess, true
		}
	case EventFail:
		if s == StatusPending {
			return StatusError, true
		}
	case EventReset:
		if s == StatusSuccess || s == StatusError {
			return StatusIdle, true
		}
	}
	return s, false
}
