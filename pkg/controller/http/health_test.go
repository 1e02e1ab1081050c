package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/sethmlarson/pypi-scorecards/pkg/controller/http"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/types"
)

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(context.Background(), newPipelineMock())
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusOK)
	gt.String(t, w.Header().Get("Content-Type")).Contains("application/json")

	var status model.HealthStatus
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	gt.Equal(t, status.Status, "healthy")
	gt.Equal(t, status.Service, types.AppName)
}
