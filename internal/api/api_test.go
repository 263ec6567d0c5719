package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/pamir-ai/aic3204-go/internal/api"
	"github.com/pamir-ai/aic3204-go/internal/auth"
	"github.com/pamir-ai/aic3204-go/internal/codec"
	"github.com/pamir-ai/aic3204-go/internal/config"
	"github.com/pamir-ai/aic3204-go/internal/events"
	"github.com/pamir-ai/aic3204-go/internal/hardware"
	"github.com/pamir-ai/aic3204-go/internal/models"
)

// newTestServer spins up a full router with mock dependencies.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	bus := hardware.NewMock()
	store := config.NewMemStore()
	evBus := events.NewBus()

	ctrl := codec.New(bus, store, evBus)
	if err := ctrl.Attach(context.Background()); err != nil {
		t.Fatalf("codec.Attach: %v", err)
	}

	authSvc, err := auth.NewService(t.TempDir()) // no users file — open mode
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}

	info := models.Info{Model: "pamir-ai-soundcard", Codec: "TLV320AIC3204", Version: "test", Mock: true}
	router := api.NewRouter(ctrl, authSvc, evBus, info)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		authSvc.Close()
	})
	return srv
}

// do is a convenience helper for making requests to the test server.
func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func bodyText(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestVolumeTextProtocol(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/volume", "73")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /api/volume: status %d", resp.StatusCode)
	}
	if got := bodyText(t, resp); got != "73\n" {
		t.Errorf("PUT /api/volume body = %q, want \"73\\n\"", got)
	}

	resp = do(t, srv, http.MethodGet, "/api/volume", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/volume: status %d", resp.StatusCode)
	}
	got, err := strconv.Atoi(strings.TrimSpace(bodyText(t, resp)))
	if err != nil {
		t.Fatalf("GET /api/volume returned non-numeric body: %v", err)
	}
	// The read-back is a decode estimate; it must stay in the 61-90 tier.
	if got < 61 || got > 90 {
		t.Errorf("GET /api/volume = %d, want a value in the 61-90 tier", got)
	}
}

func TestVolumeClampsAndRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/volume", "500")
	if got := bodyText(t, resp); got != "100\n" {
		t.Errorf("PUT 500 = %q, want clamped \"100\\n\"", got)
	}

	resp = do(t, srv, http.MethodPut, "/api/volume", "loud")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("PUT garbage: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGainTextProtocol(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/gain", "100")
	if got := bodyText(t, resp); got != "100\n" {
		t.Errorf("PUT /api/gain = %q, want \"100\\n\"", got)
	}

	// Gain round-trips exactly at the boundaries.
	resp = do(t, srv, http.MethodGet, "/api/gain", "")
	if got := bodyText(t, resp); got != "100\n" {
		t.Errorf("GET /api/gain = %q, want \"100\\n\"", got)
	}
}

func TestRegisterWriteAndRead(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/register", "4 10 99")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/register: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/api/register/4/10", "")
	if got := bodyText(t, resp); got != "99\n" {
		t.Errorf("GET /api/register/4/10 = %q, want \"99\\n\"", got)
	}
}

func TestRegisterRejectsOutOfRange(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/register", "300 0 0")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("POST out-of-range page: status %d, want 400", resp.StatusCode)
	}
	var appErr models.AppError
	if err := json.NewDecoder(resp.Body).Decode(&appErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	resp.Body.Close()
	if appErr.Code != "INVALID_PARAMETER" {
		t.Errorf("error code = %s, want INVALID_PARAMETER", appErr.Code)
	}
}

func TestRegisterRejectsBadFormat(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{"", "1 2", "a b c"} {
		resp := do(t, srv, http.MethodPost, "/api/register", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %q: status %d, want 400", body, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestStatusAndInfo(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/status", "")
	var status models.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	resp.Body.Close()
	if status.Volume != 50 || status.Gain != 50 {
		t.Errorf("status = %+v, want attach defaults 50/50", status)
	}

	resp = do(t, srv, http.MethodGet, "/api/info", "")
	var info models.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	resp.Body.Close()
	if info.Codec != "TLV320AIC3204" {
		t.Errorf("info.Codec = %q", info.Codec)
	}
}

func TestSSESendsCurrentStatusFirst(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/subscribe", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/subscribe: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read first event: %v", err)
	}
	if !strings.HasPrefix(line, "data: ") {
		t.Fatalf("first line = %q, want an SSE data line", line)
	}
	var status models.Status
	if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &status); err != nil {
		t.Fatalf("decode SSE payload: %v", err)
	}
	if status.Volume != 50 {
		t.Errorf("initial SSE volume = %d, want 50", status.Volume)
	}
}
