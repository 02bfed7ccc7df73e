package collector

import (
	"context"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"strconv"
	"strings"
	"testing"
	"time"
)

var base = time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)

// fakeHistory serves messages after a snowflake the way the API does: at most limit of the oldest
// matching messages, newest first.
type fakeHistory struct {
	messages []*discordgo.Message
	calls    int
}

func (h *fakeHistory) ChannelMessages(_, afterID string, limit int) ([]*discordgo.Message, error) {
	h.calls++
	after, _ := strconv.ParseUint(afterID, 10, 64)

	page := make([]*discordgo.Message, 0)
	for _, m := range h.messages {
		id, _ := strconv.ParseUint(m.ID, 10, 64)
		if id > after && len(page) < limit {
			page = append(page, m)
		}
	}
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

func message(offset time.Duration, author, content string) *discordgo.Message {
	at := base.Add(offset)
	return &discordgo.Message{
		ID:        strconv.FormatUint(uint64(at.UnixMilli()-1420070400000)<<22, 10),
		Timestamp: at,
		Author:    &discordgo.User{Username: author, Discriminator: "0"},
		Content:   content,
	}
}

func TestInclude(t *testing.T) {
	tests := []struct {
		name string
		msg  *discordgo.Message
		want bool
	}{
		{"regular", message(0, "alice", "hello"), true},
		{"bot", &discordgo.Message{Author: &discordgo.User{Bot: true}, Content: "beep"}, false},
		{"empty", message(0, "alice", ""), false},
		{"slash echo", message(0, "alice", "/summarize"), false},
		{"link", message(0, "alice", "https://example.com"), false},
		{"www", message(0, "alice", "www.example.com"), false},
		{"attachment", &discordgo.Message{Author: &discordgo.User{}, Content: "look", Attachments: []*discordgo.MessageAttachment{{}}}, false},
	}

	for _, tt := range tests {
		if got := Include(tt.msg); got != tt.want {
			t.Errorf("%s: Include() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollectFiltersAndFormats(t *testing.T) {
	h := &fakeHistory{messages: []*discordgo.Message{
		message(-time.Minute, "alice", "before the cutoff"),
		message(0, "alice", "exactly at the cutoff"),
		message(time.Minute, "alice", "hello <@123> there"),
		message(2*time.Minute, "bob", "/summarize"),
		message(3*time.Minute, "bob", "hi 🎉"),
	}}

	c, err := Collect(context.Background(), h, "c1", base, 4000)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"alice: hello there", "bob: hi"}
	if len(c.Messages) != len(want) {
		t.Fatalf("messages = %v, want %v", c.Messages, want)
	}
	for i := range want {
		if c.Messages[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, c.Messages[i], want[i])
		}
	}
	if c.TotalChars != len([]rune("hello <@123> there"))+len([]rune("hi 🎉")) {
		t.Errorf("total = %d", c.TotalChars)
	}
	if c.Truncated {
		t.Error("collection should not be truncated")
	}
}

func TestCollectStopsAtBudgetAcrossPages(t *testing.T) {
	messages := make([]*discordgo.Message, 0)
	for i := 0; i < 250; i++ {
		messages = append(messages, message(time.Duration(i+1)*time.Second, "alice", strings.Repeat("x", 30)+fmt.Sprint(i%10)))
	}
	h := &fakeHistory{messages: messages}

	c, err := Collect(context.Background(), h, "c1", base, 4000)
	if err != nil {
		t.Fatal(err)
	}

	// 31 characters each: the 130th message crosses the budget
	if len(c.Messages) != 130 || c.TotalChars != 130*31 {
		t.Errorf("collected %d messages, %d chars", len(c.Messages), c.TotalChars)
	}
	if !c.Truncated {
		t.Error("collection should be truncated")
	}
	if h.calls != 2 {
		t.Errorf("history pages requested = %d, want 2", h.calls)
	}
	if !strings.HasSuffix(c.Messages[0], "0") || !strings.HasSuffix(c.Messages[1], "1") {
		t.Errorf("messages not in time order: %q, %q", c.Messages[0], c.Messages[1])
	}
}

func TestCollectExhaustsHistory(t *testing.T) {
	h := &fakeHistory{messages: []*discordgo.Message{message(time.Second, "alice", "short")}}

	c, err := Collect(context.Background(), h, "c1", base, 4000)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Messages) != 1 || c.TotalChars != 5 {
		t.Errorf("unexpected collection %+v", c)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		total int
		want  Verdict
	}{
		{0, Nothing},
		{1, NotEnough},
		{999, NotEnough},
		{1000, Proceed},
		{4200, Proceed},
	}

	for _, tt := range tests {
		if got := Evaluate(tt.total, 1000); got != tt.want {
			t.Errorf("Evaluate(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}
