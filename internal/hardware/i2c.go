//go:build linux

package hardware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

const (
	// TLV320AIC3204 7-bit I2C address (fixed on the Pamir AI board).
	codecAddr = 0x18

	i2cRdwrIOCTL = 0x0707 // I2C_RDWR ioctl — combined write+read with REPEATED START
	i2cMsgRD     = 0x0001 // i2c_msg flag: read direction
	maxOpsPerSec = 500
)

// i2cMsg mirrors struct i2c_msg from linux/i2c.h
type i2cMsg struct {
	addr   uint16
	flags  uint16
	length uint16
	_pad   uint16 // struct alignment
	buf    uintptr
}

// i2cRdwr mirrors struct i2c_rdwr_ioctl_data from linux/i2c-dev.h
type i2cRdwr struct {
	msgs  uintptr
	nmsgs uint32
}

// I2CBus is the real transport for the codec, using Linux I2C_RDWR ioctl for
// all transactions (SMBus byte-data semantics with repeated start on reads).
type I2CBus struct {
	mu      sync.Mutex
	dev     string
	fd      int
	limiter *rate.Limiter
}

// NewI2C creates an I2C transport on the given device node, e.g. /dev/i2c-1.
func NewI2C(dev string) *I2CBus {
	return &I2CBus{
		dev:     dev,
		fd:      -1,
		limiter: rate.NewLimiter(rate.Limit(maxOpsPerSec), 10),
	}
}

func (b *I2CBus) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Pulse the codec RESET line so the register file is in its documented
	// power-on state before the init table runs. Best effort: boards that
	// strap RESET to the supply rail have no GPIO to drive.
	if err := resetCodec(); err != nil {
		slog.Warn("i2c: codec GPIO reset unavailable", "err", err)
	}

	fd, err := unix.Open(b.dev, unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("i2c: open %s: %w", b.dev, err)
	}

	// Probe: the page-select register is readable on every page, so a
	// single byte read tells us whether the codec is responding.
	if _, err := b.readByteData(fd, codecAddr, PageSelect); err != nil {
		unix.Close(fd)
		return fmt.Errorf("i2c: no codec at 0x%02x on %s: %w", codecAddr, b.dev, err)
	}
	slog.Info("i2c: codec detected", "addr", fmt.Sprintf("0x%02x", codecAddr), "dev", b.dev)

	b.fd = fd
	return nil
}

func (b *I2CBus) Write(ctx context.Context, reg Register, val byte) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return fmt.Errorf("i2c: bus not initialized")
	}
	return b.writeByteData(b.fd, codecAddr, reg, val)
}

func (b *I2CBus) Read(ctx context.Context, reg Register) (byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return 0, fmt.Errorf("i2c: bus not initialized")
	}
	return b.readByteData(b.fd, codecAddr, reg)
}

func (b *I2CBus) IsReal() bool { return true }

// Close releases the I2C file descriptor.
func (b *I2CBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd >= 0 {
		unix.Close(b.fd)
		b.fd = -1
	}
}

// writeByteData performs a combined write of [reg, val] using I2C_RDWR,
// equivalent to i2c_smbus_write_byte_data.
func (b *I2CBus) writeByteData(fd int, addr uint16, reg Register, val byte) error {
	wbuf := [2]byte{reg, val}
	msgs := [1]i2cMsg{
		{addr: addr, flags: 0, length: 2, buf: uintptr(unsafe.Pointer(&wbuf[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 1}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return fmt.Errorf("i2c: I2C_RDWR write reg=0x%02x: %w", reg, errno)
	}
	return nil
}

// readByteData performs a combined write+read with REPEATED START
// (SMBus read_byte_data): START→addr|W→reg→RS→addr|R→data→NACK→STOP.
func (b *I2CBus) readByteData(fd int, addr uint16, reg Register) (byte, error) {
	wbuf := [1]byte{reg}
	rbuf := [1]byte{}

	msgs := [2]i2cMsg{
		{addr: addr, flags: 0, length: 1, buf: uintptr(unsafe.Pointer(&wbuf[0]))},
		{addr: addr, flags: i2cMsgRD, length: 1, buf: uintptr(unsafe.Pointer(&rbuf[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 2}

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return 0, fmt.Errorf("i2c: I2C_RDWR read reg=0x%02x: %w", reg, errno)
	}
	return rbuf[0], nil
}
