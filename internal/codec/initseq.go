package codec

import (
	"fmt"

	"github.com/pamir-ai/aic3204-go/internal/hardware"
)

// InitStep is one entry of the bring-up table: a raw (register, value) write
// applied against whichever page the preceding steps selected. Page selects
// are ordinary entries targeting register 0x00.
type InitStep struct {
	Reg hardware.Register
	Val byte
}

// InitSequence is the fixed bring-up table for the AIC3204: software reset,
// clock tree (NDAC=1, MDAC=2, NADC=1, MADC=4), analog LDO and reference
// power with de-pop timing, DAC-to-output routing, and initial unmuted
// gains on the output drivers and ADC.
//
// The table is authoritative fixture data from the board bring-up, applied
// in strict order exactly once per attach. It is data rather than code so
// it can be inspected and tested without a live bus.
var InitSequence = []InitStep{
	// Software reset and page selection
	{0x00, 0x00}, // select page 0
	{0x01, 0x01}, // software reset
	// Clock configuration — page 0
	{0x00, 0x00}, // select page 0
	{0x0b, 0x81}, // NDAC = 1, divider powered
	{0x0c, 0x84}, // MDAC = 2, divider powered
	{0x12, 0x81}, // NADC = 1, divider powered
	{0x13, 0x84}, // MADC = 4, divider powered
	// GPIO and clock output configuration
	{0x19, 0x07}, // CDIV_CLKIN = ADC_MOD_CLK
	{0x1a, 0x81}, // CLKOUT = CDIV_CLKIN / 1, powered (3MHz)
	{0x34, 0x10}, // GPIO/MFP5 as clock output
	// Power management — page 1
	{0x00, 0x01}, // select page 1
	{0x02, 0x09}, // power up AVDD LDO
	{0x01, 0x08}, // disable weak AVDD (external AVDD present)
	{0x02, 0x01}, // master analog power on, AVDD LDO up
	{0x21, 0x00}, // MICBIAS off
	{0x7b, 0x01}, // REF charging time 40ms
	// Audio routing and output configuration — page 1
	{0x00, 0x01}, // select page 1
	{0x14, 0x25}, // de-pop: 5 time constants, 6k resistance
	{0x0c, 0x08}, // route LDAC to HPL
	{0x0d, 0x08}, // route RDAC to HPR
	{0x0e, 0x08}, // route LDAC to LOL
	{0x0f, 0x08}, // route RDAC to LOR
	{0x09, 0x3c}, // power up HPL/HPR and LOL/LOR drivers
	{0x10, 0x07}, // unmute HPL at initial gain
	{0x11, 0x07}, // unmute HPR
	{0x12, 0x07}, // unmute LOL
	{0x13, 0x07}, // unmute LOR
	// ADC input configuration — page 1
	{0x00, 0x01}, // select page 1
	{0x34, 0x80}, // IN1L to left MICPGA
	{0x36, 0x80}, // CM to left MICPGA
	{0x37, 0x80}, // IN1R to right MICPGA
	{0x39, 0x80}, // CM to right MICPGA
	{0x3b, 0x0f}, // left MICPGA volume
	{0x3c, 0x0f}, // right MICPGA volume
	// DAC and ADC power — page 0
	{0x00, 0x00}, // select page 0
	{0x51, 0xc0}, // power up left/right ADC channels
	{0x52, 0x00}, // unmute ADC
	// Initial volume and gain — page 0
	{0x00, 0x00}, // select page 0
	{0x53, 0x23}, // left ADC volume +17.5dB
	{0x54, 0x23}, // right ADC volume
	{0x41, 0x30}, // left DAC +24dB (settling aid)
	{0x42, 0x30}, // right DAC +24dB
	// Final DAC configuration — page 0
	{0x00, 0x00}, // select page 0
	{0x41, 0x00}, // left DAC back to 0dB
	{0x42, 0x00}, // right DAC back to 0dB
	{0x3f, 0xd6}, // power up LDAC/RDAC
	{0x40, 0x00}, // unmute LDAC/RDAC
}

// StepError reports the init table entry that failed. Steps after the
// failing index are never attempted and no rollback happens; the device
// must be treated as unusable.
type StepError struct {
	Index int
	Step  InitStep
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("init step %d (reg=0x%02x val=0x%02x): %v",
		e.Index, e.Step.Reg, e.Step.Val, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
