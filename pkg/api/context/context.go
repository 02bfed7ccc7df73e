package context

import (
	"context"
	"fmt"
	"sync"
	"time"
	"tldr/pkg/api/discord"
	"tldr/pkg/api/jobs"
	"tldr/pkg/config"
	"tldr/pkg/store"
	"tldr/pkg/usage"
)

const (
	StartedAtKey = "startedAt"
)

// Wordcab is the part of the Wordcab API used by commands and jobs.
type Wordcab interface {
	jobs.Provider
	CheckCredentials(ctx context.Context, email, token string) error
}

type Context interface {
	context.Context
	Set(k any, v any)
	StartedAt() time.Time
	Config() *config.Config
	Store() store.Store
	Wordcab() Wordcab
	Discord() discord.Discord
	Usage() usage.Tracker
	Jobs() *jobs.Registry
	Lifecycle() *jobs.Lifecycle
	Session() *Session
}

type Dependencies struct {
	Config  *config.Config
	Store   store.Store
	Wordcab Wordcab
	Discord discord.Discord
	Usage   usage.Tracker
}

func NewContext(parent context.Context, deps Dependencies) Context {
	return &appContext{
		Context:    parent,
		properties: map[string]any{StartedAtKey: time.Now()},
		deps:       deps,
		jobs:       jobs.NewRegistry(),
		lifecycle:  jobs.NewLifecycle(deps.Config, deps.Wordcab, deps.Discord, deps.Store, deps.Usage),
		session:    NewSession(),
	}
}

type appContext struct {
	context.Context
	sync.Mutex
	properties map[string]any
	deps       Dependencies
	jobs       *jobs.Registry
	lifecycle  *jobs.Lifecycle
	session    *Session
}

func (c *appContext) Value(k any) any {
	c.Lock()
	v, ok := c.properties[fmt.Sprintf("%s", k)]
	c.Unlock()

	if ok {
		return v
	}
	return c.Context.Value(k)
}

func (c *appContext) Set(k any, v any) {
	c.Lock()
	defer c.Unlock()
	c.properties[fmt.Sprintf("%s", k)] = v
}

func (c *appContext) StartedAt() time.Time {
	t, _ := c.Value(StartedAtKey).(time.Time)
	return t
}

func (c *appContext) Config() *config.Config {
	return c.deps.Config
}

func (c *appContext) Store() store.Store {
	return c.deps.Store
}

func (c *appContext) Wordcab() Wordcab {
	return c.deps.Wordcab
}

func (c *appContext) Discord() discord.Discord {
	return c.deps.Discord
}

func (c *appContext) Usage() usage.Tracker {
	return c.deps.Usage
}

func (c *appContext) Jobs() *jobs.Registry {
	return c.jobs
}

func (c *appContext) Lifecycle() *jobs.Lifecycle {
	return c.lifecycle
}

func (c *appContext) Session() *Session {
	return c.session
}
