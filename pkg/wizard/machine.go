package wizard

// Machine walks a flow one step at a time. Current is 1-based.
type Machine struct {
	flow    Flow
	current int
}

// NewMachine starts flow at step 1. A flow without steps yields a machine
// that sits on step 0, is Done and never moves.
func NewMachine(flow Flow) *Machine {
	m := &Machine{flow: flow, current: 1}
	if len(flow.Steps) == 0 {
		m.current = 0
	}
	return m
}

func (m *Machine) Flow() Flow { return m.flow }

// Current returns the step number, 1..Total, or 0 for an empty flow.
func (m *Machine) Current() int { return m.current }

func (m *Machine) Total() int { return len(m.flow.Steps) }

// Step returns the current screen, or the zero Step for an empty flow.
func (m *Machine) Step() Step {
	if m.current < 1 {
		return Step{}
	}
	return m.flow.Steps[m.current-1]
}

// Next advances one step and reports whether it moved. It stays put on the
// last step.
func (m *Machine) Next() bool {
	if m.current >= m.Total() {
		return false
	}
	m.current++
	return true
}

// Back returns one step and reports whether it moved. It stays put on the
// first step.
func (m *Machine) Back() bool {
	if m.current <= 1 {
		return false
	}
	m.current--
	return true
}

// Done reports whether the machine sits on the terminal step.
func (m *Machine) Done() bool {
	return m.current == m.Total()
}

// Progress is Current/Total as a fraction for progress bars.
func (m *Machine) Progress() float64 {
	if m.Total() == 0 {
		return 0
	}
	return float64(m.current) / float64(m.Total())
}
