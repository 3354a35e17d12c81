package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"raptor.onebusaway.org/internal/logging"
	"raptor.onebusaway.org/internal/models"
	"raptor.onebusaway.org/internal/raptor"
)

type statusResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// writeStatusResponse writes a body-less envelope. Error envelopes keep
// version 1 for compatibility with existing clients.
func writeStatusResponse(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(statusResponse{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     1,
	})
}

// invalidAPIKeyResponse sends a 401 Unauthorized response
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	writeStatusResponse(w, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err)
	writeStatusResponse(w, http.StatusInternalServerError, "internal server error")
}

func (api *RestAPI) unavailableResponse(w http.ResponseWriter, r *http.Request) {
	writeStatusResponse(w, http.StatusServiceUnavailable, "timetable not loaded")
}

func (api *RestAPI) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	writeStatusResponse(w, http.StatusNotFound, "resource not found")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.Logger, "failed to encode validation error response", err)
	}
}

// routingErrorResponse maps a routing failure to 400 or 500.
func (api *RestAPI) routingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs raptor.ValidationErrors
	if errors.As(err, &validationErrs) {
		api.validationErrorResponse(w, r, validationErrs.FieldErrors())
		return
	}
	api.serverErrorResponse(w, r, err)
}
