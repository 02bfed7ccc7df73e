package wordcab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", 5*time.Second)
}

func TestCheckCredentials(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"email":"me@example.com"}`))
	})

	tests := []struct {
		name    string
		email   string
		token   string
		wantErr error
	}{
		{"valid", "Me@Example.com", "good", nil},
		{"bad token", "me@example.com", "bad", ErrInvalidCredentials},
		{"other email", "you@example.com", "good", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CheckCredentials(context.Background(), tt.email, tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckCredentials() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStartSummary(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/summarize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("summary_lens") != "3" || q.Get("summary_type") != "conversational" || q.Get("source_lang") != "fr" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("display_name") != "general_Guild_alice" || q.Get("tags") != "general,Guild,alice" {
			t.Errorf("unexpected naming %s", r.URL.RawQuery)
		}

		var body struct {
			Transcript []string `json:"transcript"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if len(body.Transcript) != 2 {
			t.Errorf("unexpected transcript %v", body.Transcript)
		}

		_, _ = w.Write([]byte(`{"job_name":"job-42","job_status":"Pending"}`))
	})

	job, err := c.StartSummary(context.Background(), "tok", &SummaryRequest{
		Transcript:    []string{"alice: hi", "bob: hello"},
		DisplayName:   "general_Guild_alice",
		SourceLang:    "fr",
		SummaryType:   "conversational",
		SummaryLength: 3,
		Tags:          []string{"general", "Guild", "alice"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.JobName != "job-42" || job.JobStatus != StatusPending {
		t.Errorf("unexpected job %+v", job)
	}
}

func TestRetrieveJobAndSummary(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs/job-42":
			_, _ = w.Write([]byte(`{"job_name":"job-42","job_status":"SummaryComplete","summary_details":{"summary_id":"sum_1"}}`))
		case "/summaries/sum_1":
			_, _ = w.Write([]byte(`{
				"summary_id":"sum_1",
				"time_started":"2022-10-01T12:00:00.000000Z",
				"time_completed":"2022-10-01T12:00:07.500000Z",
				"summary":{"1":{"structured_summary":[{"summary":"They said hi."}]}}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	job, err := c.RetrieveJob(context.Background(), "tok", "job-42")
	if err != nil {
		t.Fatal(err)
	}
	if job.SummaryDetails.SummaryID != "sum_1" {
		t.Errorf("unexpected job %+v", job)
	}

	summary, err := c.RetrieveSummary(context.Background(), "tok", "sum_1")
	if err != nil {
		t.Fatal(err)
	}
	utterances := summary.Utterances(1)
	if len(utterances) != 1 || utterances[0].Summary != "They said hi." {
		t.Errorf("unexpected utterances %+v", utterances)
	}

	started, err := summary.Started()
	if err != nil {
		t.Fatal(err)
	}
	completed, err := summary.Completed()
	if err != nil {
		t.Fatal(err)
	}
	if d := completed.Sub(started); d != 7500*time.Millisecond {
		t.Errorf("response time = %s", d)
	}

	_, err = c.RetrieveJob(context.Background(), "tok", "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}

func TestDeleteJob(t *testing.T) {
	deleted := ""
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = r.URL.Path
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteJob(context.Background(), "tok", "job-42"); err != nil {
		t.Fatal(err)
	}
	if deleted != "/jobs/job-42" {
		t.Errorf("deleted %q", deleted)
	}
}
