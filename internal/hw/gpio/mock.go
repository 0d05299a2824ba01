package gpio

import "sync"

// PinWrite records a single WritePin call.
type PinWrite struct {
	Pin   int
	Level Level
}

// DutyWrite records a single SetPWMDuty call.
type DutyWrite struct {
	Pin   int
	Duty  uint32
	Cycle uint32
}

// MockDriver is an in-memory Driver for development on PC and for tests.
// It records every write and lets tests script pin levels and edge events.
type MockDriver struct {
	mu     sync.Mutex
	modes  map[int]PinMode
	levels map[int]Level
	edges  map[int][]bool
	armed  map[int]Edge
	writes []PinWrite
	duties []DutyWrite
	closed bool
}

// NewMockDriver creates an empty mock driver.
func NewMockDriver() *MockDriver {
	return &MockDriver{
		modes:  make(map[int]PinMode),
		levels: make(map[int]Level),
		edges:  make(map[int][]bool),
		armed:  make(map[int]Edge),
	}
}

func (m *MockDriver) SetupPin(pin int, mode PinMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[pin] = mode
	return nil
}

func (m *MockDriver) WritePin(pin int, level Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[pin] = level
	m.writes = append(m.writes, PinWrite{Pin: pin, Level: level})
	return nil
}

func (m *MockDriver) ReadPin(pin int) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin], nil
}

func (m *MockDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[pin] = PWM
	return nil
}

func (m *MockDriver) SetPWMDuty(pin int, dutyLen, cycleLen uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duties = append(m.duties, DutyWrite{Pin: pin, Duty: dutyLen, Cycle: cycleLen})
	return nil
}

func (m *MockDriver) DetectEdge(pin int, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed[pin] = edge
	return nil
}

// EdgeDetected pops the next scripted edge event for the pin, or reports
// false when the script is exhausted.
func (m *MockDriver) EdgeDetected(pin int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.edges[pin]
	if len(queue) == 0 {
		return false, nil
	}
	next := queue[0]
	m.edges[pin] = queue[1:]
	return next, nil
}

func (m *MockDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// --- test helpers ---

// SetLevel scripts the level returned by ReadPin.
func (m *MockDriver) SetLevel(pin int, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[pin] = level
}

// QueueEdges appends scripted results for EdgeDetected on the pin.
func (m *MockDriver) QueueEdges(pin int, events ...bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[pin] = append(m.edges[pin], events...)
}

// Writes returns a copy of all recorded WritePin calls.
func (m *MockDriver) Writes() []PinWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PinWrite, len(m.writes))
	copy(out, m.writes)
	return out
}

// Duties returns a copy of all recorded SetPWMDuty calls.
func (m *MockDriver) Duties() []DutyWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DutyWrite, len(m.duties))
	copy(out, m.duties)
	return out
}

// Mode returns the last configured mode of the pin.
func (m *MockDriver) Mode(pin int) PinMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modes[pin]
}

// Closed reports whether Close was called.
func (m *MockDriver) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
