package models

import (
	"testing"
	"time"
)

func TestUsageRow(t *testing.T) {
	started := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)
	u := &Usage{
		User:          "alice",
		GuildName:     "Guild",
		SummarySize:   "1",
		Timeframe:     "1h",
		Language:      "en",
		IncludeChat:   false,
		TimeStarted:   started,
		TimeCompleted: started.Add(12500 * time.Millisecond),
	}

	row := u.Row()
	if len(row) != len(UsageHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(UsageHeader))
	}

	want := []string{"alice", "Guild", "1", "1h", "en", "false", "2022-10-01 12:00:00.000000", "2022-10-01 12:00:12.500000", "12.5"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %s = %q, want %q", UsageHeader[i], row[i], want[i])
		}
	}
}

func TestUsageEventRoundTrip(t *testing.T) {
	u := &Usage{User: "bob", SummarySize: "3", IncludeChat: true, TimeStarted: time.Now().UTC()}
	e := NewUsageEvent(u)

	data, err := e.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	got, err := DeserializeEvent(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != e.ID || got.Type != EventTypeUsage {
		t.Errorf("unexpected envelope: %+v", got)
	}
	payload, ok := got.Data.(Usage)
	if !ok {
		t.Fatalf("data has type %T, want Usage", got.Data)
	}
	if payload.User != "bob" || payload.SummarySize != "3" || !payload.IncludeChat {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestDeserializeEventUnknownType(t *testing.T) {
	if _, err := DeserializeEvent([]byte(`{"id":"x","type":"reminder","data":{}}`)); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestNewSummaryRecordReference(t *testing.T) {
	r, err := NewSummaryRecord(7, "sum_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.GuildID != 7 || r.SummaryID != "sum_1" {
		t.Errorf("unexpected record: %+v", r)
	}
	if len(r.Reference) == 0 {
		t.Error("expected a reference code")
	}
}

func TestSummaryReferencesDifferWithinAMillisecond(t *testing.T) {
	now := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := uint64(1); i <= 100; i++ {
		ref, err := summaryReference(now, i)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %s at sequence %d", ref, i)
		}
		seen[ref] = true
	}

	a, err := NewSummaryRecord(1, "a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSummaryRecord(1, "b")
	if err != nil {
		t.Fatal(err)
	}
	if a.Reference == b.Reference {
		t.Errorf("consecutive records share reference %s", a.Reference)
	}
}
