// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

// ---- SYSTEM ----

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	age, err := s.deps.Cache.Age()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errCodeUnavailable, "no status data available")
		return
	}
	if age > s.deps.StaleAfter {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":             "stale",
			"status_age_seconds": age.Seconds(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"status_age_seconds": age.Seconds(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.deps.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.deps.Metrics.ServeHTTP(w, r)
}

// ---- STATUS ----

type statusResponse struct {
	status.Snapshot
	DeltaT     float64 `json:"delta_t"`
	AgeSeconds float64 `json:"age_seconds"`
	Stale      bool    `json:"stale"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.deps.Cache.Read()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errCodeUnavailable, "no status data available")
		return
	}
	age, _ := s.deps.Cache.Age()

	writeJSON(w, http.StatusOK, statusResponse{
		Snapshot:   snap,
		DeltaT:     snap.Delta(),
		AgeSeconds: age.Seconds(),
		Stale:      age > s.deps.StaleAfter,
	})
}

// ---- DEVICE COMMANDS ----

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On *bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.On == nil {
		writeBadRequest(w, "on field is required")
		return
	}
	if err := s.deps.Commands.SetPower(r.Context(), *req.On); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "on": *req.On})
}

func (s *Server) handleSetpoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Temperature *float64 `json:"temperature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Temperature == nil {
		writeBadRequest(w, "temperature field is required")
		return
	}
	if err := s.deps.Commands.SetTargetTemperature(r.Context(), *req.Temperature); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "target_temperature": *req.Temperature})
}

func (s *Server) handleAutoModeOffset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Offset *int `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Offset == nil {
		writeBadRequest(w, "offset field is required")
		return
	}
	if err := s.deps.Commands.SetOffset(r.Context(), *req.Offset); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "auto_mode_offset": *req.Offset})
}

func (s *Server) handleLGMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Mode == "" {
		writeBadRequest(w, "mode field is required")
		return
	}
	mode, err := registers.ParseModeSetting(req.Mode)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.deps.Commands.SetMode(r.Context(), mode); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "mode": mode.String()})
}

// ---- CURVE CONTROL LOOP ----

func (s *Server) handleAIModeGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Commands.Status())
}

func (s *Server) handleAIModeSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Enabled == nil {
		writeBadRequest(w, "enabled field is required")
		return
	}
	s.deps.Commands.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "enabled": *req.Enabled})
}

func (s *Server) handleReloadPolicy(w http.ResponseWriter, _ *http.Request) {
	if err := s.deps.Commands.ReloadPolicy(); err != nil {
		writeBadRequest(w, fmt.Sprintf("reload rejected: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

// ---- SCHEDULES ----

func (s *Server) handleScheduleGet(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Schedules == nil {
		writeError(w, http.StatusServiceUnavailable, errCodeUnavailable, "scheduling not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Schedules.Active())
}

func (s *Server) handleScheduleReload(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Schedules == nil {
		writeError(w, http.StatusServiceUnavailable, errCodeUnavailable, "scheduling not configured")
		return
	}
	if err := s.deps.Schedules.Reload(); err != nil {
		writeBadRequest(w, fmt.Sprintf("reload rejected: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

// ---- DEBUG ----

// handleRawRegisters performs one live read of every mapped bank and
// returns the unconverted values. Troubleshooting only; the poller is
// the normal read path.
func (s *Server) handleRawRegisters(w http.ResponseWriter, r *http.Request) {
	if s.deps.Raw == nil {
		writeError(w, http.StatusServiceUnavailable, errCodeUnavailable, "raw register access not configured")
		return
	}
	ctx := r.Context()

	coils, err := s.deps.Raw.ReadCoils(ctx, registers.CoilBank, registers.CoilBankSize)
	if err != nil {
		writeOpError(w, err)
		return
	}
	discrete, err := s.deps.Raw.ReadDiscreteInputs(ctx, registers.DiscreteInputBank, registers.DiscreteInputBankSize)
	if err != nil {
		writeOpError(w, err)
		return
	}
	input, err := s.deps.Raw.ReadInputRegisters(ctx, registers.InputRegisterBank, registers.InputRegisterBankSize)
	if err != nil {
		writeOpError(w, err)
		return
	}
	holding, err := s.deps.Raw.ReadHoldingRegisters(ctx, registers.HoldingBank, registers.HoldingBankSize)
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"coils":             coils,
		"discrete_inputs":   discrete,
		"input_registers":   input,
		"holding_registers": holding,
	})
}
