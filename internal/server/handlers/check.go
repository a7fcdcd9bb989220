package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/handlelens/handlelens/internal/core"
	"github.com/handlelens/handlelens/internal/core/engine"
	"github.com/handlelens/handlelens/internal/metrics"
	"github.com/handlelens/handlelens/internal/observability"
)

// CheckRequest is the inbound availability query.
type CheckRequest struct {
	Username  string   `json:"username"`
	Platforms []string `json:"platforms"`
}

// CheckResponse is the outbound verdict set.
type CheckResponse struct {
	Results []*core.Verdict `json:"results"`
}

// checkError is the wire shape for validation failures. The error field
// is a bare message string, which is what browser clients of this API
// have always consumed.
type checkError struct {
	Error string `json:"error"`
}

var handleRe = regexp.MustCompile(`^[A-Za-z0-9._]{1,32}$`)

var queriesInFlight atomic.Int64

var checkValidate = newCheckValidator()

func newCheckValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	return v
}

// CheckHandler serves POST /api/check.
type CheckHandler struct {
	Dispatcher *engine.Dispatcher
}

// ServeHTTP validates the query and fans it out across the requested
// platforms. Validation failures are 400s; everything past validation is
// a 200 whose worst per-platform outcome is an unknown verdict.
func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCheckError(w, "Bad request")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeCheckError(w, "Username is required")
		return
	}
	if len(username) < 2 || len(username) > 32 {
		writeCheckError(w, "Username must be 2–32 chars")
		return
	}
	if err := checkValidate.Var(username, "handle"); err != nil {
		writeCheckError(w, "Username contains invalid characters")
		return
	}
	if len(req.Platforms) == 0 {
		writeCheckError(w, "Select at least one platform")
		return
	}

	if h == nil || h.Dispatcher == nil {
		writeCheckError(w, "Bad request")
		return
	}

	start := time.Now()
	metrics.SetQueriesInFlight(queriesInFlight.Add(1))
	result, err := h.Dispatcher.Check(r.Context(), username, req.Platforms)
	metrics.SetQueriesInFlight(queriesInFlight.Add(-1))
	if err != nil {
		writeCheckError(w, "Bad request")
		return
	}

	duration := time.Since(start)
	metrics.RecordQuery(len(result.Results), duration)
	for _, verdict := range result.Results {
		if verdict == nil {
			continue
		}
		metrics.RecordCheck(string(verdict.Platform), string(verdict.Status), duration)
	}

	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("Availability query resolved",
			zap.String("username", username),
			zap.Int("platforms", len(result.Results)),
			zap.Int("available", result.Available),
			zap.Int("taken", result.Taken),
			zap.Int("unknown", result.Unknown),
			zap.Duration("duration", duration),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(CheckResponse{Results: result.Results})
}

func writeCheckError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(checkError{Error: message})
}
