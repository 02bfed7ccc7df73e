package context

import (
	"context"
	"testing"
	"time"
	"tldr/pkg/config"
)

func TestContextProperties(t *testing.T) {
	type key string
	parent := context.WithValue(context.Background(), key("parent"), "value")

	ctx := NewContext(parent, Dependencies{Config: config.Default()})
	ctx.Set("guild", "g1")

	if ctx.Value("guild") != "g1" {
		t.Errorf("guild = %v", ctx.Value("guild"))
	}
	if ctx.Value(key("parent")) != "value" {
		t.Error("parent values should remain visible")
	}
	if ctx.StartedAt().IsZero() {
		t.Error("started at should be set")
	}
	if ctx.Jobs() == nil || ctx.Lifecycle() == nil || ctx.Session() == nil {
		t.Error("context should provide jobs, lifecycle and session")
	}
}

func TestSessionPromptTakenOnce(t *testing.T) {
	s := NewSession()
	s.AddPrompt(&Prompt{ID: "p1", OwnerID: "o1"}, time.Minute, nil)

	if p, ok := s.Prompt("p1"); !ok || p.OwnerID != "o1" {
		t.Fatalf("prompt lookup = %v, %v", p, ok)
	}
	if _, ok := s.TakePrompt("p1"); !ok {
		t.Fatal("first take should succeed")
	}
	if _, ok := s.TakePrompt("p1"); ok {
		t.Error("second take should fail")
	}
}

func TestSessionPromptExpires(t *testing.T) {
	s := NewSession()
	expired := make(chan string, 1)
	s.AddPrompt(&Prompt{ID: "p2"}, 10*time.Millisecond, func(p *Prompt) {
		expired <- p.ID
	})

	select {
	case id := <-expired:
		if id != "p2" {
			t.Errorf("expired %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("prompt did not expire")
	}

	if _, ok := s.Prompt("p2"); ok {
		t.Error("expired prompt should be gone")
	}
}
