// internal/api/errors.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stephan-aichholzer/lg-r290-control/internal/controller"
	"github.com/stephan-aichholzer/lg-r290-control/internal/transport"
)

// Error is the structured error payload for all non-2xx responses.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	errCodeBadRequest  = "bad_request"
	errCodeStale       = "status_stale"
	errCodeUnavailable = "status_unavailable"
	errCodeDevice      = "device_unreachable"
	errCodeInternal    = "internal_error"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{Status: status, Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, errCodeBadRequest, message)
}

// writeOpError maps a controller operation failure onto the right
// status: rejected input is the caller's fault, a transport failure
// means the device is unreachable behind us.
func writeOpError(w http.ResponseWriter, err error) {
	if errors.Is(err, controller.ErrOutOfRange) {
		writeBadRequest(w, err.Error())
		return
	}
	var terr *transport.Error
	if errors.As(err, &terr) {
		writeError(w, http.StatusBadGateway, errCodeDevice, terr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
}
