package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/log"
)

const (
	logoutCommandName = "wordcab-logout"

	logoutConfirm = "confirm"
	logoutCancel  = "cancel"
)

type logoutCommand struct {
	*commandStub
}

func NewLogoutCommand(ctx context.Context) Command {
	return &logoutCommand{
		commandStub: newCommandStub(ctx, RequiresAuthentication, RequiresOwner),
	}
}

func (c *logoutCommand) Name() string {
	return logoutCommandName
}

func (c *logoutCommand) Description() string {
	return "Log out of Wordcab."
}

func (c *logoutCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *logoutCommand) Execute(e *discord.Event) {
	logger := log.Logger()
	logger.Infof(e, "⚡ %s [%s/%s]", c.Name(), e.UserName(), e.GuildID)

	if !c.isAuthorized(e) {
		return
	}

	prompt := &context.Prompt{
		ID:          uuid.NewString(),
		GuildID:     e.GuildID,
		OwnerID:     e.UserID(),
		Interaction: e.Interaction,
	}

	c.Respond(e, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Are you sure you want to log out?",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Log out",
						Style:    discordgo.DangerButton,
						CustomID: customID(c, logoutConfirm, prompt.ID),
					},
					discordgo.Button{
						Label:    "Cancel",
						Style:    discordgo.SecondaryButton,
						CustomID: customID(c, logoutCancel, prompt.ID),
					},
				}},
			},
		},
	})

	c.ctx.Session().AddPrompt(prompt, c.ctx.Config().Discord.LogoutPromptTime, func(p *context.Prompt) {
		logger.Infof(e, "logout prompt for guild %s expired", p.GuildID)
		c.clearPrompt(p)
	})
}

func (c *logoutCommand) HandleComponent(e *discord.Event) {
	logger := log.Logger()

	parts := customIDParts(e.CustomID())
	if len(parts) != 2 {
		logger.Warningf(e, "invalid custom id, %s", e.CustomID())
		return
	}
	action, id := parts[0], parts[1]

	prompt, ok := c.ctx.Session().Prompt(id)
	if !ok {
		c.Reply(e, "❌ This prompt has expired.")
		return
	}
	if e.UserID() != prompt.OwnerID {
		c.Reply(e, notOwnerMessage)
		return
	}
	if prompt, ok = c.ctx.Session().TakePrompt(id); !ok {
		c.Reply(e, "❌ This prompt has expired.")
		return
	}
	defer c.clearPrompt(prompt)

	switch action {
	case logoutConfirm:
		if err := c.ctx.Store().UnauthenticateGuild(c.ctx, prompt.GuildID); err != nil {
			c.ErrorReply(e, err)
			return
		}
		logger.Noticef(e, "guild %s logged out from Wordcab", prompt.GuildID)
		c.Reply(e, "✅ Server Logged out!")
	default:
		logger.Infof(e, "guild %s cancelled logout from Wordcab", prompt.GuildID)
		c.Reply(e, "❌ Cancelled.")
	}
}

// clearPrompt removes the buttons from an answered or expired prompt.
func (c *logoutCommand) clearPrompt(p *context.Prompt) {
	components := make([]discordgo.MessageComponent, 0)
	if err := c.ctx.Discord().EditResponse(p.Interaction, &discordgo.WebhookEdit{Components: &components}); err != nil {
		log.Logger().Warningf(nil, "error clearing logout prompt, %s", err)
	}
}
