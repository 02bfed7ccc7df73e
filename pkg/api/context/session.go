package context

import (
	"github.com/bwmarrin/discordgo"
	"sync"
	"time"
)

// Prompt is a confirmation message waiting for one of its buttons to be pressed.
type Prompt struct {
	ID          string
	GuildID     string
	OwnerID     string
	Interaction *discordgo.Interaction
	timer       *time.Timer
}

// Session holds state shared between interactions for the life of the process.
type Session struct {
	StartedAt time.Time
	mu        sync.Mutex
	prompts   map[string]*Prompt
}

func NewSession() *Session {
	return &Session{
		StartedAt: time.Now(),
		prompts:   make(map[string]*Prompt),
	}
}

// AddPrompt keeps p until it is taken or ttl passes, in which case onExpire runs with it.
func (s *Session) AddPrompt(p *Prompt, ttl time.Duration, onExpire func(*Prompt)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts[p.ID] = p
	p.timer = time.AfterFunc(ttl, func() {
		if expired, ok := s.TakePrompt(p.ID); ok && onExpire != nil {
			onExpire(expired)
		}
	})
}

func (s *Session) Prompt(id string) (*Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[id]
	return p, ok
}

// TakePrompt removes the prompt so that it can be answered at most once.
func (s *Session) TakePrompt(id string) (*Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[id]
	if !ok {
		return nil, false
	}

	delete(s.prompts, id)
	if p.timer != nil {
		p.timer.Stop()
	}
	return p, true
}
