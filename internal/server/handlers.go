package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tomargood/weather-dashboardv2/internal/controller"
	"github.com/tomargood/weather-dashboardv2/internal/storage"
)

// recentCycleLimit caps the archive links shown on the status page.
const recentCycleLimit = 8

// statusPageData is the model for the status page template.
type statusPageData struct {
	Status  controller.Status
	Version string
	// Cycles holds timestamp folder names under the current station,
	// newest first.
	Cycles []string
}

// handleStatusPage serves the operator status page.
func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := statusPageData{
		Status:  s.ctrl.Status(),
		Version: s.version,
	}

	if s.store != nil && data.Status.Station != "" {
		cycles, err := s.store.ListCycles(r.Context(), data.Status.Station, recentCycleLimit)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to list cycles for status page")
		}
		data.Cycles = cycles
	}

	content, err := s.loader.LoadStatusTemplate()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load status template")
		http.Error(w, "Status page unavailable", http.StatusInternalServerError)
		return
	}
	tmpl, err := template.New("status").Parse(content)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to parse status template")
		http.Error(w, "Status page unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render status page")
		http.Error(w, "Status page unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleHealth provides the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := s.ctrl.Status()
	health := map[string]interface{}{
		"status":    "healthy",
		"version":   s.version,
		"station":   status.Station,
		"state":     string(status.State),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"cycles": map[string]int{
			"displayed": status.Counters.Displayed,
			"skipped":   status.Counters.Skipped,
			"failed":    status.Counters.Failed,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleStation switches the target station. Accepts a JSON body
// {"station": "KBFI"} or the status page form field.
func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	station := ""
	if isFormPost(r) {
		station = r.FormValue("station")
	} else {
		var req struct {
			Station string `json:"station"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		station = req.Station
	}

	if err := s.ctrl.SetStation(station, "http"); err != nil {
		http.Error(w, "Invalid station identifier", http.StatusBadRequest)
		return
	}

	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeAccepted(w, map[string]string{
		"status":  "accepted",
		"station": strings.ToUpper(strings.TrimSpace(station)),
	})
}

// handleRefresh queues an unconditional panel refresh.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.ctrl.ForceRefresh("http")

	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeAccepted(w, map[string]string{"status": "refresh queued"})
}

// handleQuit asks the daemon to shut down.
func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.logger.Info().Msg("Shutdown requested over HTTP")
	select {
	case s.quit <- struct{}{}:
	default:
	}

	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeAccepted(w, map[string]string{"status": "shutting down"})
}

// handleFiles serves archived cycle artifacts from storage.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// The storage client rejects escapes too; checking here maps them
	// to a 400 instead of a 404.
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.store.GetFile(r.Context(), filePath)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", filePath).Msg("Archive file not found")
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// handlePanel serves the most recent rendered frame. The panel spool
// file wins; the renderer's working copy covers panel mode off.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := os.ReadFile(s.panelPNG)
	if err != nil {
		data, err = os.ReadFile(s.framePNG)
	}
	if err != nil {
		http.Error(w, "No frame rendered yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func writeAccepted(w http.ResponseWriter, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(body)
}
