//go:build linux

package hardware

import (
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// BCM pin wired to the codec's active-low RESET input on the Pamir AI
// carrier board.
const pinNRESET = "GPIO17"

// resetCodec pulses the AIC3204 RESET line so the register file returns to
// its power-on defaults before the init table is applied.
//
// Datasheet timing: RESET must be held low for at least 10ns once the
// supplies are stable, and the chip needs ~1ms after release before the
// first register access. We hold for 1ms on both sides for margin.
func resetCodec() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("gpio: host init failed: %w", err)
	}

	pin := gpioreg.ByName(pinNRESET)
	if pin == nil {
		return fmt.Errorf("gpio: failed to open %s (RESET)", pinNRESET)
	}

	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("gpio: failed to assert RESET: %w", err)
	}
	time.Sleep(1 * time.Millisecond)

	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("gpio: failed to release RESET: %w", err)
	}
	time.Sleep(1 * time.Millisecond)

	slog.Debug("gpio: codec reset complete", "pin", pinNRESET)
	return nil
}
