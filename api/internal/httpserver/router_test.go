package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"rx-scanner/api/internal/handle"
	"rx-scanner/api/internal/httpserver"
)

type fakeEngine struct {
	reply string
	err   error
	panic bool
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) ExtractPrescription(ctx context.Context, image []byte, mime string) (string, error) {
	if f.panic {
		panic("engine blew up")
	}
	return f.reply, f.err
}

func newServer(t *testing.T, eng *fakeEngine) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(httpserver.NewRouter(httpserver.Options{
		Handle: handle.New(eng, 0),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func postImage(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "rx.jpg")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	_ = mw.Close()

	resp, err := http.Post(url+"/process_image", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestEndToEndScan(t *testing.T) {
	ts := newServer(t, &fakeEngine{reply: `[{"name":"Amoxicillin","quantity":"250mg","duration":5,"meal":"with food","frequency":"thrice a day"}]`})

	resp, body := postImage(t, ts.URL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	var out handle.ProcessImageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.MedicineDetails) != 1 || out.MedicineDetails[0].Name != "Amoxicillin" {
		t.Errorf("medicine_details = %+v", out.MedicineDetails)
	}
	if out.MedicineDetails[0].Duration != 5 {
		t.Errorf("duration = %d, want 5", out.MedicineDetails[0].Duration)
	}
}

func TestEndToEndUpstreamFailureIsGeneric500(t *testing.T) {
	ts := newServer(t, &fakeEngine{err: errors.New("gemini: 503")})

	resp, body := postImage(t, ts.URL)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out["error"] != handle.ErrMsgInternal {
		t.Errorf("error = %q", out["error"])
	}
}

func TestPanicBecomesGeneric500JSON(t *testing.T) {
	ts := newServer(t, &fakeEngine{panic: true})

	resp, body := postImage(t, ts.URL)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("panic response is not JSON: %s", body)
	}
	if out["error"] != handle.ErrMsgInternal {
		t.Errorf("error = %q", out["error"])
	}
}

func TestTestAndHealthEndpoints(t *testing.T) {
	ts := newServer(t, &fakeEngine{})

	for path, want := range map[string]string{
		"/test":    "hello shravan",
		"/healthz": "ok",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || string(body) != want {
			t.Errorf("GET %s = %d %q, want 200 %q", path, resp.StatusCode, body, want)
		}
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	ts := newServer(t, &fakeEngine{})

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics = %d", resp.StatusCode)
	}
}
