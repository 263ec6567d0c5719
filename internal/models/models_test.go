package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/pamir-ai/aic3204-go/internal/models"
)

func TestDefaultStatus(t *testing.T) {
	st := models.DefaultStatus()
	if st.Volume != 50 || st.Gain != 50 {
		t.Errorf("DefaultStatus() = %+v, want 50/50", st)
	}
}

func TestStatusJSONFields(t *testing.T) {
	data, err := json.Marshal(models.Status{Volume: 10, Gain: 20})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"vol":10,"input_gain":20}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestAppErrorCause(t *testing.T) {
	cause := errors.New("bus timeout")
	appErr := models.ErrTransport("write failed").WithCause(cause)

	if !errors.Is(appErr, cause) {
		t.Error("errors.Is does not see the attached cause")
	}
	if appErr.Status != 502 {
		t.Errorf("transport error status = %d, want 502", appErr.Status)
	}
	// The JSON body must not leak the internal status or cause.
	data, err := json.Marshal(appErr)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["Status"]; ok {
		t.Error("status leaked into the JSON body")
	}
	if decoded["error"] != "TRANSPORT" {
		t.Errorf("error code = %v, want TRANSPORT", decoded["error"])
	}
}

func TestErrInvalidParameter(t *testing.T) {
	appErr := models.ErrInvalidParameter("page 300 out of range 0-255")
	if appErr.Code != "INVALID_PARAMETER" || appErr.Status != 400 {
		t.Errorf("got code=%s status=%d", appErr.Code, appErr.Status)
	}
}
