package hardware

import (
	"context"
	"sync"
)

// Mock is a thread-safe in-memory stand-in for the codec, used for testing
// and development. It models the paged register file: writes to PageSelect
// switch the active bank, and every other access lands on the currently
// selected page, exactly like the real chip.
type Mock struct {
	mu        sync.Mutex
	pages     map[byte]map[Register]byte
	page      byte // currently selected page
	writes    int  // total write transactions, page selects included
	reads     int
	failWrite bool
	failRead  bool
	failAt    int // fail the Nth write (1-based); 0 = disabled
}

// NewMock creates a mock bus with all registers reading as zero.
func NewMock() *Mock {
	return &Mock{pages: make(map[byte]map[Register]byte)}
}

// SetFailWrite configures the mock to fail all write operations.
func (m *Mock) SetFailWrite(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

// SetFailRead configures the mock to fail all read operations.
func (m *Mock) SetFailRead(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = fail
}

// FailWriteAt makes the Nth write from now (1-based) fail once.
// Pass 0 to disable.
func (m *Mock) FailWriteAt(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.writes = 0
}

// Writes returns the number of write transactions performed.
func (m *Mock) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Reads returns the number of read transactions performed.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *Mock) Init(ctx context.Context) error { return nil }

func (m *Mock) Write(ctx context.Context, reg Register, val byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWrite || (m.failAt > 0 && m.writes == m.failAt) {
		return ErrBus("mock: write failure configured")
	}
	if reg == PageSelect {
		m.page = val
		return nil
	}
	if _, ok := m.pages[m.page]; !ok {
		m.pages[m.page] = make(map[Register]byte)
	}
	m.pages[m.page][reg] = val
	return nil
}

func (m *Mock) Read(ctx context.Context, reg Register) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.failRead {
		return 0, ErrBus("mock: read failure configured")
	}
	if reg == PageSelect {
		return m.page, nil
	}
	if regs, ok := m.pages[m.page]; ok {
		return regs[reg], nil
	}
	return 0, nil
}

func (m *Mock) IsReal() bool { return false }

func (m *Mock) Close() {}

// GetReg returns a register value on a specific page, for test assertions.
func (m *Mock) GetReg(page byte, reg Register) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if regs, ok := m.pages[page]; ok {
		return regs[reg]
	}
	return 0
}

// SetReg seeds a register value on a specific page, for test setup.
func (m *Mock) SetReg(page byte, reg Register, val byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[page]; !ok {
		m.pages[page] = make(map[Register]byte)
	}
	m.pages[page][reg] = val
}

// Page returns the currently selected page, for test assertions.
func (m *Mock) Page() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

// BusError is returned when a bus transaction fails.
type BusError struct {
	msg string
}

func (e BusError) Error() string { return e.msg }

// ErrBus creates a new bus error.
func ErrBus(msg string) error { return BusError{msg: msg} }
