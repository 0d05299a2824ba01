package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Triggerer starts scare cycles and reports the busy state.
type Triggerer interface {
	TryTrigger(ctx context.Context) bool
	IsBusy() bool
}

// AudioControl is the slice of the audio manager the API needs.
type AudioControl interface {
	PlayRandom(ctx context.Context) (string, error)
	Names() []string
	Count() int
	Folder() string
	Reload() (int, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	orch        Triggerer
	audio       AudioControl
	broadcaster *EventBroadcaster
	// baseCtx bounds background work started by requests (scare cycles,
	// immediate playback) to the process lifetime, not the request's.
	baseCtx context.Context
	log     *zap.SugaredLogger
}

// NewHandlers creates handlers with the given dependencies.
func NewHandlers(baseCtx context.Context, orch Triggerer, audio AudioControl, b *EventBroadcaster, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		orch:        orch,
		audio:       audio,
		broadcaster: b,
		baseCtx:     baseCtx,
		log:         log,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type playResponse struct {
	Status string `json:"status"`
	Clip   string `json:"clip,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HandlePlay plays one random clip immediately. No debounce: immediate
// playback has no multi-step timing to protect.
func (h *Handlers) HandlePlay(w http.ResponseWriter, r *http.Request) {
	clip, err := h.audio.PlayRandom(h.baseCtx)
	if err != nil {
		h.log.Errorf("play: %v", err)
		writeJSON(w, playResponse{Status: "error", Error: err.Error()})
		return
	}
	writeJSON(w, playResponse{Status: "ok", Clip: clip})
}

type triggerResponse struct {
	Status string `json:"status"`
}

// HandleTrigger starts a scare cycle, or reports "ignored" when one is
// already running. The cycle runs off the request goroutine so other
// endpoints stay responsive.
func (h *Handlers) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	if !h.orch.TryTrigger(h.baseCtx) {
		writeJSON(w, triggerResponse{Status: "ignored"})
		return
	}
	writeJSON(w, triggerResponse{Status: "ok"})
}

type statusResponse struct {
	Busy        bool   `json:"busy"`
	ClipCount   int    `json:"clip_count"`
	AudioFolder string `json:"audio_folder"`
}

// HandleStatus returns the busy flag and clip inventory summary.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusResponse{
		Busy:        h.orch.IsBusy(),
		ClipCount:   h.audio.Count(),
		AudioFolder: h.audio.Folder(),
	})
}

type soundsResponse struct {
	Count  int      `json:"count"`
	Sounds []string `json:"sounds"`
}

// HandleSounds lists all loaded clip names.
func (h *Handlers) HandleSounds(w http.ResponseWriter, r *http.Request) {
	names := h.audio.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, soundsResponse{Count: len(names), Sounds: names})
}

type reloadResponse struct {
	Status        string `json:"status"`
	PreviousCount int    `json:"previous_count,omitempty"`
	NewCount      int    `json:"new_count"`
	Error         string `json:"error,omitempty"`
}

// HandleReload re-scans the audio folder and refreshes the clip list.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	previous := h.audio.Count()
	count, err := h.audio.Reload()
	if err != nil {
		h.log.Errorf("reload: %v", err)
		writeJSON(w, reloadResponse{Status: "error", Error: err.Error(), NewCount: previous})
		return
	}
	writeJSON(w, reloadResponse{Status: "ok", PreviousCount: previous, NewCount: count})
}

// HandleEvents streams scare lifecycle events over SSE.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsub := h.broadcaster.Subscribe()
	defer unsub()

	// Initial comment to establish the stream.
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
