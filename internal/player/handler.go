package player

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"presentation-orchestrator/internal/platform/metrics"
	"presentation-orchestrator/internal/presentation"
)

// Handler exposes the playback remote-control HTTP endpoints using go-chi.
type Handler struct {
	player  *Player
	pres    *presentation.Presentation
	log     *slog.Logger
	metrics *metrics.Metrics

	// remoteURL is the externally reachable base URL encoded into the
	// remote-control QR code.
	remoteURL string
}

// NewHandler returns a Handler for the given player and presentation.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(p *Player, pres *presentation.Presentation, log *slog.Logger, m *metrics.Metrics, remoteURL string) *Handler {
	return &Handler{player: p, pres: pres, log: log, metrics: m, remoteURL: remoteURL}
}

// navRequest is the body of jump and move commands: either a symbolic
// target or an absolute frame index.
type navRequest struct {
	To    string `json:"to,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// indexRequest is the body of play and preview commands.
type indexRequest struct {
	Index *int `json:"index,omitempty"`
}

// GetPresentation handles GET /presentation.
func (h *Handler) GetPresentation(w http.ResponseWriter, r *http.Request) {
	type frameInfo struct {
		Index                int    `json:"index"`
		Name                 string `json:"name"`
		TimeoutEnable        bool   `json:"timeout_enable"`
		TimeoutMs            int    `json:"timeout_ms"`
		TransitionDurationMs int    `json:"transition_duration_ms"`
	}
	frames := make([]frameInfo, h.pres.FrameCount())
	for i := range frames {
		f := h.pres.Frame(i)
		frames[i] = frameInfo{
			Index:                i,
			Name:                 f.Name,
			TimeoutEnable:        f.TimeoutEnable,
			TimeoutMs:            f.TimeoutMs,
			TransitionDurationMs: f.TransitionDurationMs,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"title":       h.pres.Title,
		"frame_count": h.pres.FrameCount(),
		"layers":      h.pres.Layers,
		"frames":      frames,
	})
}

// GetStatus handles GET /playback.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.player.Status())
}

// Play handles POST /playback/play. An omitted index resumes at the
// current frame.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if !decodeBody(w, r, &req, h.log) {
		return
	}
	if req.Index != nil {
		h.player.PlayFrom(*req.Index)
	} else {
		h.player.Resume()
	}
	h.respondStatus(w)
}

// Pause handles POST /playback/pause.
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.player.Pause()
	h.respondStatus(w)
}

// Resume handles POST /playback/resume.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.player.Resume()
	h.respondStatus(w)
}

// Jump handles POST /playback/jump: an instant move, no animation.
func (h *Handler) Jump(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if !decodeBody(w, r, &req, h.log) {
		return
	}
	switch {
	case req.Index != nil:
		h.player.JumpTo(*req.Index)
	case req.To == "first":
		h.player.JumpFirst()
	case req.To == "last":
		h.player.JumpLast()
	case req.To == "previous":
		h.player.JumpPrevious()
	case req.To == "next":
		h.player.JumpNext()
	default:
		h.badNav(w, req)
		return
	}
	h.respondStatus(w)
}

// Move handles POST /playback/move: an animated transition. "previous" is
// skip-aware; "current" replays the current frame.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if !decodeBody(w, r, &req, h.log) {
		return
	}
	switch {
	case req.Index != nil:
		h.player.MoveTo(*req.Index)
	case req.To == "first":
		h.player.MoveFirst()
	case req.To == "last":
		h.player.MoveLast()
	case req.To == "previous":
		h.player.MovePrevious()
	case req.To == "next":
		h.player.MoveNext()
	case req.To == "current":
		h.player.MoveCurrent()
	default:
		h.badNav(w, req)
		return
	}
	if h.metrics != nil {
		h.metrics.IncTransitions()
	}
	h.respondStatus(w)
}

// Preview handles POST /playback/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if !decodeBody(w, r, &req, h.log) {
		return
	}
	if req.Index == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index required"})
		return
	}
	h.player.Preview(*req.Index)
	if h.metrics != nil {
		h.metrics.IncTransitions()
	}
	h.respondStatus(w)
}

// Blank handles POST /playback/blank: toggles the blank-screen overlay.
func (h *Handler) Blank(w http.ResponseWriter, r *http.Request) {
	h.player.ToggleBlank()
	h.respondStatus(w)
}

// Events handles GET /playback/events: a server-sent-events stream of
// frame changes. The current frame is sent first so late joiners are in
// sync.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		h.log.Error("events stream unsupported: response writer is not a flusher")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ch := h.player.Events().Subscribe(8)
	defer h.player.Events().Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	st := h.player.Status()
	writeEvent(w, FrameChange{Index: st.Current, Name: st.FrameName})
	fl.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			writeEvent(w, ev)
			fl.Flush()
		}
	}
}

// RemoteQR handles GET /remote/qr.png: a QR code of the remote-control URL
// for joining from a phone.
func (h *Handler) RemoteQR(w http.ResponseWriter, r *http.Request) {
	if h.remoteURL == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	png, err := qrcode.Encode(h.remoteURL, qrcode.Medium, 256)
	if err != nil {
		h.log.Error("qr encode failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) respondStatus(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, h.player.Status())
}

func (h *Handler) badNav(w http.ResponseWriter, req navRequest) {
	h.log.Debug("invalid navigation target", slog.String("to", req.To))
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": fmt.Sprintf("invalid navigation target %q", req.To),
	})
}

// decodeBody decodes an optional JSON body. An empty body decodes to the
// zero request; malformed JSON is a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, log *slog.Logger) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeEvent(w http.ResponseWriter, ev FrameChange) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: framechange\ndata: %s\n\n", data)
}
