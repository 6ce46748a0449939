package browseai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TaxNewsletter/internal/domain"
)

const tasksPayload = `{
  "statusCode": 200,
  "result": {
    "robotTasks": {
      "items": [
        {
          "id": "task-1",
          "status": "successful",
          "createdAt": 1755672000000,
          "runByTaskMonitorId": "monitor-7",
          "capturedLists": {
            "Circulars": [
              {"Circular Number": "Circular No. 12/2026", "Publish Date": "19 Aug 2026", "_STATUS": "NEW"},
              {"Circular Number": "Circular No. 11/2026", "Publish Date": "12 Aug 2026", "_STATUS": "UNCHANGED"}
            ]
          }
        },
        {
          "id": "task-2",
          "status": "successful",
          "createdAt": 1755585600000,
          "runByTaskMonitorId": null,
          "capturedLists": {
            "Circulars": [
              {"Circular Number": "Circular No. 11/2026", "Publish Date": "12 Aug 2026"}
            ]
          }
        }
      ]
    }
  }
}`

func TestRecentRuns(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots/robot-1/tasks" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		_, _ = w.Write([]byte(tasksPayload))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", server.Client())

	runs, err := client.RecentRuns(context.Background(), "robot-1")
	if err != nil {
		t.Fatalf("RecentRuns error: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	first := runs[0]
	if first.Origin != domain.OriginScheduled {
		t.Fatalf("expected scheduled origin, got %s", first.Origin)
	}
	if !first.Successful() {
		t.Fatalf("expected successful run, got status %s", first.Status)
	}
	if want := time.UnixMilli(1755672000000).UTC(); !first.CreatedAt.Equal(want) {
		t.Fatalf("unexpected createdAt: %v", first.CreatedAt)
	}
	if len(first.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(first.Records))
	}
	if first.Records[0].ChangeTag() != domain.TagNew {
		t.Fatalf("expected NEW tag, got %q", first.Records[0].ChangeTag())
	}

	second := runs[1]
	if second.Origin != domain.OriginManual {
		t.Fatalf("expected manual origin, got %s", second.Origin)
	}
	if second.Records[0].Tagged() {
		t.Fatal("baseline record must not carry a change tag")
	}
}

func TestRecentRunsNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", server.Client())

	if _, err := client.RecentRuns(context.Background(), "robot-1"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestRecentRunsMissingKey(t *testing.T) {
	t.Parallel()

	client := NewClient("http://localhost", "", nil)
	if _, err := client.RecentRuns(context.Background(), "robot-1"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}

func TestMonitors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots/robot-1/monitors" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":{"monitors":{"items":[{"id":"m-1","name":"daily","status":"active","schedule":"0 6 * * *"}]}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", server.Client())

	monitors, err := client.Monitors(context.Background(), "robot-1")
	if err != nil {
		t.Fatalf("Monitors error: %v", err)
	}
	if len(monitors) != 1 || monitors[0].Name != "daily" {
		t.Fatalf("unexpected monitors: %+v", monitors)
	}
}
