package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"gopower/domain/core"
	"gopower/internal/errors"
)

const maxBodyBytes = 4 << 20

type errorResponse struct {
	Code  string          `json:"code"`
	Error string          `json:"error"`
	ID    core.AnalysisID `json:"id,omitempty"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("failed to encode response", "error", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error, id core.AnalysisID) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
	}
	a.writeJSON(w, status, errorResponse{
		Code:  errors.GetCode(err),
		Error: err.Error(),
		ID:    id,
	})
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.InvalidInput("request body is empty")
		}
		return errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

// queryFloat returns nil when the parameter is not present
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("query parameter %s must be a number, got %q", name, raw))
	}
	return &v, nil
}
