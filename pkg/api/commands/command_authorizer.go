package commands

import (
	"errors"
	"fmt"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/store"
)

type Requirement string

const (
	RequiresOwner          Requirement = "owner"
	RequiresAuthentication Requirement = "authenticated"
)

const (
	notOwnerMessage         = "❌ You are not the guild owner."
	notAuthenticatedMessage = "❌ Guild not logged in. You can log in with `/%s`."
)

type CommandAuthorizer interface {
	Requirements() []Requirement
	IsAuthorized(e *discord.Event) (bool, string, error)
	IsGuildOwner(e *discord.Event) (bool, error)
	IsGuildAuthenticated(e *discord.Event) (bool, error)
}

type commandAuthorizer struct {
	ctx          context.Context
	requirements []Requirement
}

func newCommandAuthorizer(ctx context.Context, requirements ...Requirement) *commandAuthorizer {
	return &commandAuthorizer{
		ctx:          ctx,
		requirements: requirements,
	}
}

func (c *commandAuthorizer) Requirements() []Requirement {
	return c.requirements
}

// IsAuthorized checks the requirements in order and reports the first one that fails.
func (c *commandAuthorizer) IsAuthorized(e *discord.Event) (bool, string, error) {
	for _, r := range c.requirements {
		switch r {
		case RequiresAuthentication:
			ok, err := c.IsGuildAuthenticated(e)
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, fmt.Sprintf(notAuthenticatedMessage, loginCommandName), nil
			}
		case RequiresOwner:
			ok, err := c.IsGuildOwner(e)
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, notOwnerMessage, nil
			}
		}
	}

	return true, "", nil
}

func (c *commandAuthorizer) IsGuildOwner(e *discord.Event) (bool, error) {
	guild, err := c.ctx.Discord().Guild(e.GuildID)
	if err != nil {
		return false, fmt.Errorf("error looking up guild, %w", err)
	}
	return guild.OwnerID == e.UserID(), nil
}

// IsGuildAuthenticated treats an unknown guild as not authenticated.
func (c *commandAuthorizer) IsGuildAuthenticated(e *discord.Event) (bool, error) {
	ok, err := c.ctx.Store().IsGuildAuthenticated(c.ctx, e.GuildID)
	if errors.Is(err, store.ErrGuildNotFound) {
		return false, nil
	}
	return ok, err
}
