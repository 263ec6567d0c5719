// Package api implements the HTTP control surface for the codec daemon.
// The volume, gain, and register endpoints speak the same decimal text
// protocol as the original sysfs attributes; status and info are JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pamir-ai/aic3204-go/internal/models"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Codec
	events EventBus
	info   models.Info
}

// Codec is the interface the handlers use to drive the device.
type Codec interface {
	Status() models.Status
	SetVolume(ctx context.Context, percent int) (models.Status, *models.AppError)
	GetVolume(ctx context.Context) (int, *models.AppError)
	SetGain(ctx context.Context, percent int) (models.Status, *models.AppError)
	GetGain(ctx context.Context) (int, *models.AppError)
	RegisterWrite(ctx context.Context, page, reg, value int) *models.AppError
	RegisterRead(ctx context.Context, page, reg int) (byte, *models.AppError)
}

// EventBus is the interface for subscribing to status change events.
type EventBus interface {
	Subscribe(id string) <-chan models.Status
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeText writes a decimal value as a plain-text line, the way the sysfs
// attributes did.
func writeText(w http.ResponseWriter, v int) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "%d\n", v)
}

// writeError writes an AppError as a JSON response.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if appErr, ok := err.(*models.AppError); ok {
		w.WriteHeader(appErr.Status)
		_ = json.NewEncoder(w).Encode(appErr)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(models.ErrInternal(err.Error()))
}

// intParam reads an integer path parameter by name.
func intParam(r *http.Request, name string) (int, error) {
	s := chi.URLParam(r, name)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, models.ErrBadRequest("invalid " + name + " parameter")
	}
	return n, nil
}
