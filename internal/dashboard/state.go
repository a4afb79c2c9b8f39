package dashboard

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of one page or widget.
type State int

// Page states. Every load starts from Loading and settles exactly once.
const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateReadyEmpty
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateReadyEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when a page settles without loading.
var ErrInvalidTransition = errors.New("dashboard: invalid state transition")

// Page tracks the state of one view and what to show instead of data.
type Page struct {
	State   State
	Message string
	Err     error
}

// Begin moves the page to Loading from any state.
func (p *Page) Begin() {
	p.State = StateLoading
	p.Message = ""
	p.Err = nil
}

// Resolve settles a loading page. An empty result shows emptyMessage in place
// of the table.
func (p *Page) Resolve(empty bool, emptyMessage string) error {
	if p.State != StateLoading {
		return fmt.Errorf("%w: resolve from %s", ErrInvalidTransition, p.State)
	}
	if empty {
		p.State = StateReadyEmpty
		p.Message = emptyMessage
		return nil
	}
	p.State = StateReady
	return nil
}

// Fail settles a loading page with err, described for display.
func (p *Page) Fail(err error) error {
	if p.State != StateLoading {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, p.State)
	}
	p.State = StateError
	p.Err = err
	p.Message = Describe(err)
	return nil
}

// Ready reports whether data should be rendered.
func (p Page) Ready() bool { return p.State == StateReady }

// Empty reports whether the empty message should be rendered.
func (p Page) Empty() bool { return p.State == StateReadyEmpty }

// Failed reports whether the error message should be rendered.
func (p Page) Failed() bool { return p.State == StateError }

// Loading reports whether the page has not settled.
func (p Page) Loading() bool { return p.State == StateLoading }
