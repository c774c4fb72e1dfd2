package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

func releasesServer(t *testing.T, releases *[]models.ReleaseVersion, hits *int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/p1/releases", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{"releases": *releases})
	})
	return httptest.NewServer(mux)
}

func TestRefreshReleases_DebounceSuppressesRedundantFetches(t *testing.T) {
	logger.Init("development")

	var hits int64
	releases := []models.ReleaseVersion{{ID: "r1", Version: "1.0", ReleaseDate: "2099-01-01"}}
	srv := releasesServer(t, &releases, &hits)
	defer srv.Close()

	c := New(srv.URL, "", "p1", WithDebounceWindow(time.Minute))

	assert.NoError(t, c.RefreshReleases(context.Background()))
	assert.NoError(t, c.RefreshReleases(context.Background()))
	assert.NoError(t, c.RefreshReleases(context.Background()))

	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))
	assert.Len(t, c.Releases(), 1)
}

func TestRefreshReleases_PreservesIdentityOfUnchangedRows(t *testing.T) {
	logger.Init("development")

	var hits int64
	releases := []models.ReleaseVersion{
		{ID: "r1", Version: "1.0", ReleaseDate: "2099-01-01", Status: models.StatusPlanning},
		{ID: "r2", Version: "2.0", ReleaseDate: "2099-06-01", Status: models.StatusPlanning},
	}
	srv := releasesServer(t, &releases, &hits)
	defer srv.Close()

	c := New(srv.URL, "", "p1", WithDebounceWindow(0))

	assert.NoError(t, c.RefreshReleases(context.Background()))
	first := c.Releases()
	assert.Len(t, first, 2)

	// r2 changes; r1 must keep its identity so memoized consumers skip it
	releases = []models.ReleaseVersion{
		{ID: "r1", Version: "1.0", ReleaseDate: "2099-01-01", Status: models.StatusPlanning},
		{ID: "r2", Version: "2.0", ReleaseDate: "2099-06-01", Status: models.StatusInProgress},
	}
	assert.NoError(t, c.RefreshReleases(context.Background()))
	second := c.Releases()

	assert.Same(t, first[0], second[0])
	assert.NotSame(t, first[1], second[1])
	assert.Equal(t, models.StatusInProgress, second[1].Status)
}

func TestRefreshReleases_FailureKeepsCachedData(t *testing.T) {
	logger.Init("development")

	fail := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/p1/releases", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"releases": []models.ReleaseVersion{{ID: "r1", Version: "1.0", ReleaseDate: "2099-01-01"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", "p1", WithDebounceWindow(0))

	assert.NoError(t, c.RefreshReleases(context.Background()))
	assert.Len(t, c.Releases(), 1)

	fail = true
	err := c.RefreshReleases(context.Background())
	assert.Error(t, err)

	// Stale data beats blank data
	assert.Len(t, c.Releases(), 1)
}

func TestSetIssueStatus_OptimisticApplyAndPersist(t *testing.T) {
	logger.Init("development")

	persisted := make(chan map[string]interface{}, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/p1/issue-status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		persisted <- body
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", "p1")

	notified := make(chan string, 4)
	unsubscribe := c.Subscribe(func(resource string) { notified <- resource })
	defer unsubscribe()

	c.SetIssueStatus(context.Background(), "ISSUE-1", models.IssueUnresolved)

	// Applied locally before the persist resolves, with the test-status
	// coupling mirrored
	statuses := c.IssueStatuses()
	assert.Equal(t, models.IssueUnresolved, statuses.IssueStatuses["ISSUE-1"])
	assert.Equal(t, models.TestNotTested, statuses.TestStatuses["ISSUE-1"])

	select {
	case resource := <-notified:
		assert.Equal(t, ResourceStatuses, resource)
	case <-time.After(time.Second):
		t.Fatal("expected a subscriber notification")
	}

	select {
	case body := <-persisted:
		assert.Equal(t, "ISSUE-1", body["issueId"])
		assert.Equal(t, "Unresolved", body["status"])
	case <-time.After(time.Second):
		t.Fatal("expected the mutation to be persisted")
	}
}

func TestSetIssueStatus_FailedPersistSignalsRefresh(t *testing.T) {
	logger.Init("development")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/p1/issue-status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", "p1")

	notified := make(chan string, 4)
	unsubscribe := c.Subscribe(func(resource string) { notified <- resource })
	defer unsubscribe()

	c.SetIssueStatus(context.Background(), "ISSUE-1", models.IssueFixed)

	// One notification for the optimistic apply, one refresh-needed signal
	// after the persist fails; the optimistic value is not rolled back
	for i := 0; i < 2; i++ {
		select {
		case resource := <-notified:
			assert.Equal(t, ResourceStatuses, resource)
		case <-time.After(time.Second):
			t.Fatal("expected two subscriber notifications")
		}
	}
	assert.Equal(t, models.IssueFixed, c.IssueStatuses().IssueStatuses["ISSUE-1"])
}

func TestSetTestStatus_MirrorsBackendCoercion(t *testing.T) {
	logger.Init("development")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/p1/issue-test-status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, "", "p1")

	// Issue is not Fixed/Merged locally, so Tested coerces to Not tested
	c.SetTestStatus(context.Background(), "ISSUE-1", models.TestTested)
	assert.Equal(t, models.TestNotTested, c.IssueStatuses().TestStatuses["ISSUE-1"])
}

func TestStart_StopsPollingOnCancel(t *testing.T) {
	logger.Init("development")

	var hits int64
	releases := []models.ReleaseVersion{}
	srv := releasesServer(t, &releases, &hits)
	defer srv.Close()

	// Statuses and settings endpoints are absent; those polls fail and must
	// not disturb the release cache
	c := New(srv.URL, "", "p1",
		WithPollInterval(20*time.Millisecond),
		WithDebounceWindow(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	time.Sleep(70 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	after := atomic.LoadInt64(&hits)
	assert.GreaterOrEqual(t, after, int64(2))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&hits))
}
