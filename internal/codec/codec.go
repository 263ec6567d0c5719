// Package codec implements the AIC3204 control session — the single place
// that sequences register traffic for bring-up, volume, input gain, and raw
// diagnostic access.
package codec

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pamir-ai/aic3204-go/internal/config"
	"github.com/pamir-ai/aic3204-go/internal/events"
	"github.com/pamir-ai/aic3204-go/internal/hardware"
	"github.com/pamir-ai/aic3204-go/internal/models"
)

// Codec is a single-device control session. Every logical operation
// (initialize, set/get volume, set/get gain, raw access) holds the mutex
// for its whole duration: each one issues a page select followed by
// dependent register accesses, and an interleaved operation between the two
// would land on the wrong page.
type Codec struct {
	mu          sync.Mutex
	bus         hardware.Bus
	store       config.Store
	events      *events.Bus
	status      models.Status
	initialized bool
}

// New creates a codec session on the given bus. The percentage cache starts
// at the 50/50 defaults; Attach pushes the stored levels to hardware.
func New(bus hardware.Bus, store config.Store, ev *events.Bus) *Codec {
	return &Codec{
		bus:    bus,
		store:  store,
		events: ev,
		status: models.DefaultStatus(),
	}
}

// Initialize applies the bring-up table in order. Callable exactly once per
// session: the table starts with a software reset, so replaying it would
// drop the outputs. A failure at step i aborts the rest and returns a
// StepError naming the index; the device is left partially initialized and
// must not be used.
func (c *Codec) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return models.ErrInvalidParameter("codec already initialized")
	}

	for i, step := range InitSequence {
		if err := c.bus.Write(ctx, step.Reg, step.Val); err != nil {
			return &StepError{Index: i, Step: step, Err: err}
		}
	}
	c.initialized = true
	slog.Info("codec: initialization sequence complete", "steps", len(InitSequence))
	return nil
}

// Attach performs the full bring-up: the init table, then the stored (or
// default) volume and gain pushed to hardware through the normal set paths.
// The cache is never seeded from a hardware read-back.
func (c *Codec) Attach(ctx context.Context) error {
	if err := c.Initialize(ctx); err != nil {
		return err
	}

	st, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("codec: load stored levels: %w", err)
	}
	if _, appErr := c.SetVolume(ctx, st.Volume); appErr != nil {
		return fmt.Errorf("codec: set initial volume: %w", appErr)
	}
	if _, appErr := c.SetGain(ctx, st.Gain); appErr != nil {
		return fmt.Errorf("codec: set initial gain: %w", appErr)
	}
	return nil
}

// Status returns the cached volume and gain percentages.
func (c *Codec) Status() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetVolume maps the percentage onto the headphone/line driver gains and
// the DAC volume and writes them. The headphone/line group (page 1) is
// written before the DAC group (page 0) so a transient mismatch never
// boosts both stages at once. The cache and store are updated only when
// every write succeeded.
func (c *Codec) SetVolume(ctx context.Context, percent int) (models.Status, *models.AppError) {
	percent = hardware.ClampPercent(percent)
	hp, dac := hardware.EncodeVolume(percent)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectPage(ctx, 1); err != nil {
		return models.Status{}, transportErr("select page 1", err)
	}
	for _, reg := range []hardware.Register{
		hardware.RegHPLGain, hardware.RegHPRGain,
		hardware.RegLOLGain, hardware.RegLORGain,
	} {
		if err := c.bus.Write(ctx, reg, hp); err != nil {
			return models.Status{}, transportErr(fmt.Sprintf("write hp gain 0x%02x", reg), err)
		}
	}

	if err := c.selectPage(ctx, 0); err != nil {
		return models.Status{}, transportErr("select page 0", err)
	}
	for _, reg := range []hardware.Register{hardware.RegDACLVol, hardware.RegDACRVol} {
		if err := c.bus.Write(ctx, reg, dac); err != nil {
			return models.Status{}, transportErr(fmt.Sprintf("write dac vol 0x%02x", reg), err)
		}
	}

	c.status.Volume = percent
	c.persistAndPublish()
	slog.Info("codec: volume set", "percent", percent,
		"hp", fmt.Sprintf("0x%02x", hp), "dac", fmt.Sprintf("0x%02x", dac))
	return c.status, nil
}

// GetVolume reads the left headphone gain and left DAC volume fresh from
// hardware, decodes them, and overwrites the cache with the estimate. The
// returned value is approximate: the forward curve is not injective.
func (c *Codec) GetVolume(ctx context.Context) (int, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectPage(ctx, 1); err != nil {
		return 0, transportErr("select page 1", err)
	}
	hp, err := c.bus.Read(ctx, hardware.RegHPLGain)
	if err != nil {
		return 0, transportErr("read hp gain", err)
	}

	if err := c.selectPage(ctx, 0); err != nil {
		return 0, transportErr("select page 0", err)
	}
	dac, err := c.bus.Read(ctx, hardware.RegDACLVol)
	if err != nil {
		return 0, transportErr("read dac vol", err)
	}

	c.status.Volume = hardware.DecodeVolume(hp, dac)
	return c.status.Volume, nil
}

// SetGain maps the percentage onto the ADC volume registers and writes
// them. Cache and store update only on full success.
func (c *Codec) SetGain(ctx context.Context, percent int) (models.Status, *models.AppError) {
	percent = hardware.ClampPercent(percent)
	adc := hardware.EncodeGain(percent)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectPage(ctx, 0); err != nil {
		return models.Status{}, transportErr("select page 0", err)
	}
	for _, reg := range []hardware.Register{hardware.RegADCLVol, hardware.RegADCRVol} {
		if err := c.bus.Write(ctx, reg, adc); err != nil {
			return models.Status{}, transportErr(fmt.Sprintf("write adc vol 0x%02x", reg), err)
		}
	}

	c.status.Gain = percent
	c.persistAndPublish()
	slog.Info("codec: input gain set", "percent", percent, "adc", fmt.Sprintf("0x%02x", adc))
	return c.status, nil
}

// GetGain reads the left ADC volume fresh from hardware, decodes it, and
// overwrites the cache with the estimate.
func (c *Codec) GetGain(ctx context.Context) (int, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectPage(ctx, 0); err != nil {
		return 0, transportErr("select page 0", err)
	}
	adc, err := c.bus.Read(ctx, hardware.RegADCLVol)
	if err != nil {
		return 0, transportErr("read adc vol", err)
	}

	c.status.Gain = hardware.DecodeGain(adc)
	return c.status.Gain, nil
}

// RegisterWrite is the raw diagnostic write path: bounds-check everything
// to the byte domain, select the page, write the register. No semantic
// validation happens beyond the range check — this path can put the device
// into an invalid state, which is its purpose.
func (c *Codec) RegisterWrite(ctx context.Context, page, reg, value int) *models.AppError {
	if err := checkByteRange("page", page); err != nil {
		return err
	}
	if err := checkByteRange("register", reg); err != nil {
		return err
	}
	if err := checkByteRange("value", value); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectPage(ctx, byte(page)); err != nil {
		return transportErr(fmt.Sprintf("select page %d", page), err)
	}
	if err := c.bus.Write(ctx, byte(reg), byte(value)); err != nil {
		return transportErr(fmt.Sprintf("write page %d reg 0x%02x", page, reg), err)
	}
	slog.Debug("codec: raw register write", "page", page,
		"reg", fmt.Sprintf("0x%02x", reg), "value", fmt.Sprintf("0x%02x", value))
	return nil
}

// RegisterRead is the raw diagnostic read path.
func (c *Codec) RegisterRead(ctx context.Context, page, reg int) (byte, *models.AppError) {
	if err := checkByteRange("page", page); err != nil {
		return 0, err
	}
	if err := checkByteRange("register", reg); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectPage(ctx, byte(page)); err != nil {
		return 0, transportErr(fmt.Sprintf("select page %d", page), err)
	}
	val, err := c.bus.Read(ctx, byte(reg))
	if err != nil {
		return 0, transportErr(fmt.Sprintf("read page %d reg 0x%02x", page, reg), err)
	}
	return val, nil
}

// selectPage re-sends the page select before every dependent access; the
// device's current page is a side effect shared with every other caller, so
// it is never assumed. Callers must hold c.mu.
func (c *Codec) selectPage(ctx context.Context, page byte) error {
	return c.bus.Write(ctx, hardware.PageSelect, page)
}

// persistAndPublish saves the cache and notifies subscribers. Callers must
// hold c.mu.
func (c *Codec) persistAndPublish() {
	if c.store != nil {
		_ = c.store.Save(&c.status) // debounced, async
	}
	if c.events != nil {
		c.events.Publish(c.status)
	}
}

func checkByteRange(name string, v int) *models.AppError {
	if v < 0 || v > 255 {
		return models.ErrInvalidParameter(fmt.Sprintf("%s %d out of range 0-255", name, v))
	}
	return nil
}

func transportErr(op string, err error) *models.AppError {
	return models.ErrTransport(fmt.Sprintf("%s: %v", op, err)).WithCause(err)
}
