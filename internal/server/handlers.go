package server

import (
	"encoding/json"
	"net/http"

	"github.com/lockgraph/lockgraph/pkg/errors"
	"github.com/lockgraph/lockgraph/pkg/lockfile"
)

// parseRequest is the body accepted by POST /api/parse.
// Format is optional; when empty the server detects the format
// from the filename and content.
type parseRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	Format   string `json:"format,omitempty"`
}

// errorResponse is the JSON envelope for failed requests.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleParse parses a lockfile payload and returns the graph as JSON.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Content == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "content must not be empty"))
		return
	}

	content := []byte(req.Content)
	g, err := func() (any, error) {
		if req.Format != "" {
			return lockfile.ParseFormat(content, req.Format)
		}
		return lockfile.Parse(content, req.Filename)
	}()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, g)
}

// handleFormats lists the supported lockfile formats.
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"formats": lockfile.Formats()})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON marshals v and writes it with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

// writeError maps an error to an HTTP status and writes the error envelope.
// Client-side problems (bad input, unknown formats, empty lockfiles) map to
// 400; everything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeMalformedInput,
		errors.ErrCodeNoDependencies,
		errors.ErrCodeUnsupportedFormat:
		status = http.StatusBadRequest
	}

	if status >= 500 {
		s.logger.Errorf("Request failed: %v", err)
	}

	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}
