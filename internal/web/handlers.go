package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorting"
)

const keepAlive = 15 * time.Second

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, sorting.ErrUnknownAlgorithm):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	f, err := staticFS.Open("static/index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.Copy(w, f)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var out []entry
	for _, name := range s.ctrl.Algorithms() {
		out = append(out, entry{Name: name, Description: sorting.Describe(name)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleArray(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	values, err := config.ParseArray(req.Input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ctrl.SetInput(values); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"input": values})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	algorithm := chi.URLParam(r, "algorithm")
	out, err := s.ctrl.Launch(s.base, algorithm)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	go func() {
		if o := <-out; o.Err != nil {
			s.logger.Warn("web session ended", "algorithm", algorithm, "error", o.Err)
		}
	}()
	writeJSON(w, http.StatusAccepted, s.ctrl.State())
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.Pause()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleResume(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.Resume()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleCancel(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.Cancel()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleVoice(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.ToggleVoice()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpeedMs *int `json:"speed_ms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.SpeedMs == nil || *req.SpeedMs < 0 {
		writeError(w, http.StatusBadRequest, errors.New("speed_ms must be a non-negative integer"))
		return
	}
	s.ctrl.SetSpeed(time.Duration(*req.SpeedMs) * time.Millisecond)
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
		}
		flusher.Flush()
	}
}
