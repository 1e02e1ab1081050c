package depsdev_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sethmlarson/pypi-scorecards/pkg/infra/depsdev"
)

const scorecardBody = `{
	"version": {
		"projects": [
			{
				"scorecardV2": {
					"check": [
						{"name": "Maintained", "score": 7},
						{"name": "CI-Tests", "score": 10},
						{"name": "Fuzzing", "score": -1}
					]
				}
			},
			{
				"scorecardV2": {
					"check": [
						{"name": "Maintained", "score": 9}
					]
				}
			},
			{}
		]
	}
}`

func TestClient_FetchChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates checks across projects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Equal(t, r.URL.Path, "/_/s/pypi/p/requests/v/")
			w.Write([]byte(scorecardBody))
		}))
		defer srv.Close()

		client := depsdev.NewClient(depsdev.WithBaseURL(srv.URL))
		checks, err := client.FetchChecks(ctx, "requests")
		gt.NoError(t, err)

		// maximum score wins across projects
		gt.Equal(t, checks["Maintained"], 9)
		gt.Equal(t, checks["CI-Tests"], 10)

		// negative scores denote missing values and are dropped
		_, ok := checks["Fuzzing"]
		gt.Equal(t, ok, false)
	})

	t.Run("unknown package yields no checks and no error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := depsdev.NewClient(depsdev.WithBaseURL(srv.URL))
		checks, err := client.FetchChecks(ctx, "does-not-exist")
		gt.NoError(t, err)
		gt.Value(t, checks).Nil()
	})

	t.Run("retries on server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(scorecardBody))
		}))
		defer srv.Close()

		client := depsdev.NewClient(
			depsdev.WithBaseURL(srv.URL),
			depsdev.WithMaxRetries(3),
			depsdev.WithBackoff(time.Millisecond),
		)
		checks, err := client.FetchChecks(ctx, "requests")
		gt.NoError(t, err)
		gt.Equal(t, checks["Maintained"], 9)
		gt.Equal(t, calls.Load(), int32(3))
	})

	t.Run("fails after exhausting retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := depsdev.NewClient(
			depsdev.WithBaseURL(srv.URL),
			depsdev.WithMaxRetries(2),
			depsdev.WithBackoff(time.Millisecond),
		)
		_, err := client.FetchChecks(ctx, "requests")
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("request failed after retries")
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := depsdev.NewClient(depsdev.WithBaseURL(srv.URL))
		_, err := client.FetchChecks(ctx, "requests")
		gt.Error(t, err)
	})
}
