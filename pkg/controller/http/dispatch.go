package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/utils/async"
)

// DispatchHandler starts a manual pipeline run. It is the on-demand
// counterpart of the cron scheduler: the run it starts is identical to a
// scheduled one apart from the trigger kind.
type DispatchHandler struct {
	token      string
	pipelineUC interfaces.PipelineUseCase
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(token string, pipelineUC interfaces.PipelineUseCase) *DispatchHandler {
	return &DispatchHandler{
		token:      token,
		pipelineUC: pipelineUC,
	}
}

// Handle accepts a dispatch request, starts the run in the background and
// responds 202. A run already in flight yields 409: the remote branch must
// not be raced by overlapping pushes.
func (h *DispatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	if !h.authorize(r) {
		logger.Warn("Dispatch request with invalid token")
		writeError(w, goerr.New("invalid dispatch token"), http.StatusUnauthorized)
		return
	}

	if h.pipelineUC.Running() {
		writeError(w, goerr.New("a run is already in progress"), http.StatusConflict)
		return
	}

	trigger := model.NewTrigger(model.TriggerManual, time.Time{})
	logger.Info("Manual dispatch accepted",
		"run_id", trigger.ID,
	)

	// The run outlives the request
	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := h.pipelineUC.Execute(ctx, trigger); err != nil {
			return goerr.Wrap(err, "dispatched run failed", goerr.V("run_id", trigger.ID))
		}
		return nil
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "accepted",
		"run_id": trigger.ID.String(),
	}); err != nil {
		logger.Error("Failed to encode dispatch response", "error", err)
	}
}

// authorize verifies the bearer token in constant time
func (h *DispatchHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}

	header := r.Header.Get("Authorization")
	got := strings.TrimPrefix(header, "Bearer ")
	if got == header {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
