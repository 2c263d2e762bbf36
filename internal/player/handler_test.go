package player

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"presentation-orchestrator/internal/presentation"
	"presentation-orchestrator/internal/viewport"
)

func newTestHandler(t *testing.T) (*Handler, *fakeClock) {
	t.Helper()
	frames := []presentation.Frame{
		simpleFrame("a", 0, 0, 1),
		simpleFrame("b", 100, 0, 1),
		simpleFrame("c", 200, 0, 1),
	}
	pres := &presentation.Presentation{Title: "deck", Frames: frames, Layers: []int{0}}
	vp, err := viewport.New(pres.Layers)
	if err != nil {
		t.Fatalf("viewport.New: %v", err)
	}
	p, err := New(pres, vp, time.Millisecond, discardLogger())
	if err != nil {
		t.Fatalf("player.New: %v", err)
	}
	fc := &fakeClock{p: p}
	p.clock = fc
	p.sched = &fakeScheduler{}
	return NewHandler(p, pres, discardLogger(), nil, "http://example.test/remote"), fc
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/presentation", h.GetPresentation)
	r.Get("/remote/qr.png", h.RemoteQR)
	r.Route("/playback", func(r chi.Router) {
		r.Get("/", h.GetStatus)
		r.Get("/events", h.Events)
		r.Post("/play", h.Play)
		r.Post("/pause", h.Pause)
		r.Post("/resume", h.Resume)
		r.Post("/jump", h.Jump)
		r.Post("/move", h.Move)
		r.Post("/preview", h.Preview)
		r.Post("/blank", h.Blank)
	})
	return r
}

func post(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) Status {
	t.Helper()
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

func TestHandler_GetPresentation(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/presentation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		Title      string `json:"title"`
		FrameCount int    `json:"frame_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Title != "deck" || body.FrameCount != 3 {
		t.Errorf("got %+v", body)
	}
}

func TestHandler_play_and_status(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	rec := post(t, r, "/playback/play", `{"index": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	st := decodeStatus(t, rec)
	if st.Current != 1 || !st.Playing {
		t.Errorf("got %+v", st)
	}

	req := httptest.NewRequest(http.MethodGet, "/playback/", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	if got := decodeStatus(t, get); got.Current != 1 {
		t.Errorf("GET /playback: %+v", got)
	}
}

func TestHandler_move_symbolic_targets(t *testing.T) {
	h, fc := newTestHandler(t)
	r := newTestRouter(h)

	rec := post(t, r, "/playback/move", `{"to": "next"}`)
	st := decodeStatus(t, rec)
	if !st.Animating || st.Target != 1 {
		t.Errorf("move next: %+v", st)
	}
	fc.complete()

	rec = post(t, r, "/playback/move", `{"to": "last"}`)
	if st := decodeStatus(t, rec); st.Target != 2 {
		t.Errorf("move last: %+v", st)
	}
	fc.complete()

	rec = post(t, r, "/playback/move", `{"to": "sideways"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid target: got %d, want 400", rec.Code)
	}
}

func TestHandler_jump_and_pause(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	rec := post(t, r, "/playback/jump", `{"index": 2}`)
	st := decodeStatus(t, rec)
	if st.Current != 2 || st.Playing || st.Animating {
		t.Errorf("jump: %+v", st)
	}

	post(t, r, "/playback/resume", "")
	rec = post(t, r, "/playback/pause", "")
	if st := decodeStatus(t, rec); st.Playing {
		t.Errorf("pause: %+v", st)
	}
}

func TestHandler_preview_requires_index(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	if rec := post(t, r, "/playback/preview", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("preview without index: got %d, want 400", rec.Code)
	}
	rec := post(t, r, "/playback/preview", `{"index": 2}`)
	if rec.Code != http.StatusOK {
		t.Errorf("preview: got %d", rec.Code)
	}
	if st := decodeStatus(t, rec); st.Playing {
		t.Errorf("preview must not start playback: %+v", st)
	}
}

func TestHandler_blank_toggle(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	rec := post(t, r, "/playback/blank", "")
	if st := decodeStatus(t, rec); !st.Blanked {
		t.Errorf("blank on: %+v", st)
	}
	rec = post(t, r, "/playback/blank", "")
	if st := decodeStatus(t, rec); st.Blanked {
		t.Errorf("blank off: %+v", st)
	}
}

func TestHandler_bad_body(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	if rec := post(t, r, "/playback/move", "not json"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: got %d, want 400", rec.Code)
	}
}

func TestHandler_events_stream(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	// A pre-cancelled context makes the stream return right after the
	// initial snapshot event.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/playback/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type: got %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: framechange") || !strings.Contains(body, `"index":0`) {
		t.Errorf("initial event missing: %q", body)
	}
}

func TestHandler_remote_qr(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/remote/qr.png", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("content type: got %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty image body")
	}
}
