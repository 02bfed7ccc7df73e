package commands

import (
	"errors"
	"github.com/bwmarrin/discordgo"
	"strings"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/log"
	"tldr/pkg/store"
	"tldr/pkg/wordcab"
)

const (
	loginCommandName = "wordcab-login"

	loginModal      = "modal"
	loginEmailInput = "email"
	loginTokenInput = "api_token"
)

type loginCommand struct {
	*commandStub
}

func NewLoginCommand(ctx context.Context) Command {
	return &loginCommand{
		commandStub: newCommandStub(ctx),
	}
}

func (c *loginCommand) Name() string {
	return loginCommandName
}

func (c *loginCommand) Description() string {
	return "Log in to Wordcab."
}

func (c *loginCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *loginCommand) Execute(e *discord.Event) {
	logger := log.Logger()
	logger.Infof(e, "⚡ %s [%s/%s]", c.Name(), e.UserName(), e.GuildID)

	c.Respond(e, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customID(c, loginModal),
			Title:    "Log in to Wordcab",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    loginEmailInput,
						Label:       "Wordcab account email",
						Style:       discordgo.TextInputShort,
						Placeholder: "Enter your email...",
						Required:    true,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    loginTokenInput,
						Label:       "Wordcab API token",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "Enter your API token...",
						Required:    true,
						MaxLength:   100,
					},
				}},
			},
		},
	})
}

func (c *loginCommand) HandleModal(e *discord.Event) {
	logger := log.Logger()

	email := strings.TrimSpace(e.ModalValue(loginEmailInput))
	token := strings.TrimSpace(e.ModalValue(loginTokenInput))

	if !c.DeferReply(e) {
		return
	}

	err := c.ctx.Wordcab().CheckCredentials(c.ctx, email, token)
	if errors.Is(err, wordcab.ErrInvalidCredentials) {
		c.EditReply(e, "❌ Invalid credentials.")
		return
	}
	if err != nil {
		c.EditErrorReply(e, err)
		return
	}

	guildID, err := c.ctx.Store().GuildID(c.ctx, e.GuildID)
	if errors.Is(err, store.ErrGuildNotFound) {
		c.EditReply(e, "❌ Guild not found.")
		return
	}
	if err != nil {
		c.EditErrorReply(e, err)
		return
	}

	if err = c.ctx.Store().AuthenticateGuild(c.ctx, guildID, email, token); err != nil {
		c.EditErrorReply(e, err)
		return
	}

	logger.Noticef(e, "guild %s authenticated as %s", e.GuildID, email)
	c.EditReply(e, "✅ Authenticated "+email+"!")
}
