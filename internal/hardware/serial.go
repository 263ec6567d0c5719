package hardware

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// SerialBridge talks to the codec through a USB-UART MCU bridge that
// forwards register transactions, for bench setups without an I2C adapter.
//
// Line protocol, one transaction per line at 115200 8N1:
//
//	-> "w <reg> <val>\n"   <- "ok\n"
//	-> "r <reg>\n"         <- "<val>\n"
//
// reg and val are decimal 0-255. Any other response line is an error.
type SerialBridge struct {
	mu   sync.Mutex
	dev  string
	port serial.Port
	rd   *bufio.Reader
}

// NewSerialBridge creates a serial transport on the given device node,
// e.g. /dev/ttyUSB0.
func NewSerialBridge(dev string) *SerialBridge {
	return &SerialBridge{dev: dev}
}

func (b *SerialBridge) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	port, err := serial.Open(b.dev, &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("serial: open %s: %w", b.dev, err)
	}
	b.port = port
	b.rd = bufio.NewReader(port)
	return nil
}

func (b *SerialBridge) Write(ctx context.Context, reg Register, val byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.port == nil {
		return fmt.Errorf("serial: bridge not initialized")
	}
	resp, err := b.roundTrip(fmt.Sprintf("w %d %d\n", reg, val))
	if err != nil {
		return err
	}
	if resp != "ok" {
		return fmt.Errorf("serial: write reg=0x%02x: bridge said %q", reg, resp)
	}
	return nil
}

func (b *SerialBridge) Read(ctx context.Context, reg Register) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.port == nil {
		return 0, fmt.Errorf("serial: bridge not initialized")
	}
	resp, err := b.roundTrip(fmt.Sprintf("r %d\n", reg))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(resp)
	if err != nil || n < 0 || n > 255 {
		return 0, fmt.Errorf("serial: read reg=0x%02x: bad response %q", reg, resp)
	}
	return byte(n), nil
}

func (b *SerialBridge) IsReal() bool { return true }

func (b *SerialBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.port != nil {
		_ = b.port.Close()
		b.port = nil
	}
}

// roundTrip sends one command line and returns the trimmed response line.
// Callers must hold b.mu.
func (b *SerialBridge) roundTrip(cmd string) (string, error) {
	if _, err := b.port.Write([]byte(cmd)); err != nil {
		return "", fmt.Errorf("serial: write: %w", err)
	}
	line, err := b.rd.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("serial: read response: %w", err)
	}
	return strings.TrimSpace(line), nil
}
