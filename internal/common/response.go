package common

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse carries field-level errors back to the form along
// with the submitted values so the client can re-render the inputs.
type ValidationResponse struct {
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
	Fields  map[string]string   `json:"fields,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithValidationErrors(w http.ResponseWriter, resp ValidationResponse) {
	RespondWithJSON(w, http.StatusUnprocessableEntity, resp)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
