package commands

import (
	"fmt"
	"github.com/bwmarrin/discordgo"
	"strings"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/log"
)

const customIDSeparator = ":"

type Command interface {
	Name() string
	Description() string
	Definition() *discordgo.ApplicationCommand
	Authorizer() CommandAuthorizer
	Execute(e *discord.Event)
}

// ComponentHandler is implemented by commands whose messages carry buttons.
type ComponentHandler interface {
	HandleComponent(e *discord.Event)
}

// ModalHandler is implemented by commands that open modals.
type ModalHandler interface {
	HandleModal(e *discord.Event)
}

type commandStub struct {
	ctx        context.Context
	authorizer CommandAuthorizer
}

func newCommandStub(ctx context.Context, requirements ...Requirement) *commandStub {
	return &commandStub{
		ctx:        ctx,
		authorizer: newCommandAuthorizer(ctx, requirements...),
	}
}

func (cs *commandStub) Authorizer() CommandAuthorizer {
	return cs.authorizer
}

// isAuthorized checks the command's requirements, replying with the reason when they are not met.
func (cs *commandStub) isAuthorized(e *discord.Event) bool {
	authorized, reason, err := cs.authorizer.IsAuthorized(e)
	if err != nil {
		cs.ErrorReply(e, err)
		return false
	}
	if !authorized {
		cs.Reply(e, reason)
	}
	return authorized
}

func (cs *commandStub) Respond(e *discord.Event, response *discordgo.InteractionResponse) {
	if err := cs.ctx.Discord().Respond(e.Interaction, response); err != nil {
		log.Logger().Warningf(e, "error responding to interaction, %s", err)
	}
}

// Reply answers the interaction with a message only the invoking user sees.
func (cs *commandStub) Reply(e *discord.Event, message string) {
	log.Logger().Infof(e, "Replying: %s", message)

	cs.Respond(e, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (cs *commandStub) Replyf(e *discord.Event, format string, args ...any) {
	cs.Reply(e, fmt.Sprintf(format, args...))
}

func (cs *commandStub) ErrorReply(e *discord.Event, err error) {
	log.Logger().Warningf(e, "error while responding to interaction, %s", err)
	cs.Replyf(e, "Error: %s", err)
}

// DeferReply acknowledges the interaction; the answer follows with EditReply.
func (cs *commandStub) DeferReply(e *discord.Event) bool {
	err := cs.ctx.Discord().Respond(e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Logger().Warningf(e, "error deferring interaction response, %s", err)
		return false
	}
	return true
}

func (cs *commandStub) EditReply(e *discord.Event, message string) {
	log.Logger().Infof(e, "Replying: %s", message)

	if err := cs.ctx.Discord().EditResponse(e.Interaction, &discordgo.WebhookEdit{Content: &message}); err != nil {
		log.Logger().Warningf(e, "error editing interaction response, %s", err)
	}
}

func (cs *commandStub) EditErrorReply(e *discord.Event, err error) {
	log.Logger().Warningf(e, "error while responding to interaction, %s", err)
	cs.EditReply(e, fmt.Sprintf("Error: %s", err))
}

func customID(c Command, parts ...string) string {
	return strings.Join(append([]string{c.Name()}, parts...), customIDSeparator)
}

// customIDParts returns the segments of a custom id after the command name.
func customIDParts(id string) []string {
	parts := strings.Split(id, customIDSeparator)
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

func commandNameFromCustomID(id string) string {
	name, _, _ := strings.Cut(id, customIDSeparator)
	return name
}
