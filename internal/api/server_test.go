package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/pipeline"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(pipeline.NewRunner(nil, nil, nil, nil, nil), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func requestBody(t *testing.T, target design.Rect) *bytes.Reader {
	t.Helper()
	doc := &design.Document{
		Name:   "banner",
		Bounds: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
		Layers: []design.Layer{
			{ID: "bg", Kind: design.KindPixel, Visible: true, Opacity: 1,
				Bounds: design.Rect{X: 0, Y: 0, W: 1000, H: 1000}},
			{ID: "logo", Kind: design.KindPixel, Visible: true, Opacity: 1,
				Bounds: design.Rect{X: 100, Y: 100, W: 200, H: 200}},
		},
	}
	data, err := json.Marshal(map[string]any{
		"document": doc,
		"target":   target,
	})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(data)
}

func TestHealth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
	if body["version"] == "" {
		t.Error("version missing")
	}
}

func TestTransformEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/transform", "application/json",
		requestBody(t, design.Rect{X: 0, Y: 0, W: 500, H: 500}))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body transformResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Payload == nil || body.Payload.Status != design.StatusSuccess {
		t.Errorf("payload = %+v", body.Payload)
	}
	if body.PayloadHash == "" {
		t.Error("payload hash missing")
	}
}

func TestRenderEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/render", "application/json",
		requestBody(t, design.Rect{X: 0, Y: 0, W: 300, H: 300}))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	buf := make([]byte, 8)
	if _, err := resp.Body.Read(buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x89 || buf[1] != 'P' || buf[2] != 'N' || buf[3] != 'G' {
		t.Errorf("response is not a PNG: % x", buf)
	}
}

func TestTransformBadBody(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/transform", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code == "" {
		t.Error("error code missing")
	}
}

func TestTransformDegenerateTarget(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/transform", "application/json",
		requestBody(t, design.Rect{}))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
