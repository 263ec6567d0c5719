package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pamir-ai/aic3204-go/internal/models"
)

// getVolume reads the volume fresh from hardware and returns the decoded
// percentage as decimal text.
func (h *Handlers) getVolume(w http.ResponseWriter, r *http.Request) {
	vol, appErr := h.ctrl.GetVolume(r.Context())
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeText(w, vol)
}

// setVolume parses a decimal percentage from the body, clamps it to
// [0, 100], and applies it. Responds with the applied value.
func (h *Handlers) setVolume(w http.ResponseWriter, r *http.Request) {
	percent, err := readPercent(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	status, appErr := h.ctrl.SetVolume(r.Context(), percent)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeText(w, status.Volume)
}

// getGain reads the input gain fresh from hardware and returns the decoded
// percentage as decimal text.
func (h *Handlers) getGain(w http.ResponseWriter, r *http.Request) {
	gain, appErr := h.ctrl.GetGain(r.Context())
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeText(w, gain)
}

func (h *Handlers) setGain(w http.ResponseWriter, r *http.Request) {
	percent, err := readPercent(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	status, appErr := h.ctrl.SetGain(r.Context(), percent)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeText(w, status.Gain)
}

// readRegister performs a raw diagnostic read of page/reg (both decimal
// 0-255 path parameters) and returns the byte as decimal text.
func (h *Handlers) readRegister(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page")
	if err != nil {
		writeError(w, err)
		return
	}
	reg, err := intParam(r, "reg")
	if err != nil {
		writeError(w, err)
		return
	}
	val, appErr := h.ctrl.RegisterRead(r.Context(), page, reg)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeText(w, int(val))
}

// writeRegister performs a raw diagnostic write. The body is the historical
// text format: "page reg value", all decimal 0-255.
func (h *Handlers) writeRegister(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64))
	if err != nil {
		writeError(w, models.ErrBadRequest("cannot read body"))
		return
	}
	var page, reg, value int
	if n, err := fmt.Sscanf(strings.TrimSpace(string(body)), "%d %d %d", &page, &reg, &value); err != nil || n != 3 {
		writeError(w, models.ErrBadRequest("invalid format, use: 'page reg value'"))
		return
	}
	if appErr := h.ctrl.RegisterWrite(r.Context(), page, reg, value); appErr != nil {
		writeError(w, appErr)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintln(w, "ok")
}

// getStatus returns the cached volume and gain without touching hardware.
func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

// readPercent parses a decimal percentage line from a control request body.
// Out-of-range values are not an error: they saturate to [0, 100] in the
// codec session, matching the historical store semantics.
func readPercent(body io.Reader) (int, error) {
	data, err := io.ReadAll(io.LimitReader(body, 16))
	if err != nil {
		return 0, models.ErrBadRequest("cannot read body")
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, models.ErrBadRequest("expected a decimal percentage")
	}
	return n, nil
}
