package events

import (
	"github.com/bwmarrin/discordgo"
	"tldr/pkg/api/commands"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/log"
	"tldr/pkg/metrics"
)

const (
	interactionCommand   = "command"
	interactionComponent = "component"
	interactionModal     = "modal"
)

type Handler interface {
	Attach(d discord.Discord)
	Ready(s *discordgo.Session, r *discordgo.Ready)
	GuildCreate(s *discordgo.Session, g *discordgo.GuildCreate)
	GuildDelete(s *discordgo.Session, g *discordgo.GuildDelete)
	InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate)
	Handle(e *discord.Event)
}

type handler struct {
	ctx      context.Context
	registry commands.CommandRegistry
}

func NewHandler(ctx context.Context) Handler {
	return &handler{
		ctx:      ctx,
		registry: commands.NewCommandRegistry(ctx),
	}
}

// Attach subscribes the handler to the gateway events it consumes.
func (eh *handler) Attach(d discord.Discord) {
	d.AddHandler(eh.Ready)
	d.AddHandler(eh.GuildCreate)
	d.AddHandler(eh.GuildDelete)
	d.AddHandler(eh.InteractionCreate)
}

func (eh *handler) Ready(_ *discordgo.Session, r *discordgo.Ready) {
	logger := log.Logger()

	if r != nil && r.User != nil {
		logger.Noticef(nil, "logged on as %s", r.User.String())
	}

	definitions := eh.registry.Definitions()
	if err := eh.ctx.Discord().RegisterCommands("", definitions); err != nil {
		logger.Errorf(nil, "error registering global commands, %s", err)
	}

	guildID := eh.ctx.Config().Discord.TestingGuildID
	if len(guildID) == 0 {
		return
	}

	guild, err := eh.ctx.Discord().Guild(guildID)
	if err != nil {
		logger.Warningf(nil, "bot is not in the testing guild %s, %s", guildID, err)
		return
	}

	if err = eh.ctx.Store().AddGuild(eh.ctx, guild.ID, guild.OwnerID); err != nil {
		logger.Errorf(nil, "error adding testing guild %s, %s", guildID, err)
		return
	}

	if err = eh.ctx.Discord().RegisterCommands(guildID, definitions); err != nil {
		logger.Errorf(nil, "error registering commands on testing guild %s, %s", guildID, err)
	}
}

// GuildCreate records the guild. Commands are global, so nothing is registered per guild.
func (eh *handler) GuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	logger := log.Logger()

	if g == nil || g.Guild == nil || g.Unavailable {
		return
	}

	if err := eh.ctx.Store().AddGuild(eh.ctx, g.ID, g.OwnerID); err != nil {
		logger.Errorf(nil, "error adding guild %s, %s", g.ID, err)
		return
	}

	logger.Infof(nil, "joined guild %s (%s)", g.Name, g.ID)
}

// GuildDelete forgets a guild the bot was removed from. Outages also deliver GuildDelete, with
// Unavailable set, and keep the guild.
func (eh *handler) GuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	logger := log.Logger()

	if g == nil || g.Guild == nil || g.Unavailable {
		return
	}

	if err := eh.ctx.Store().RemoveGuild(eh.ctx, g.ID); err != nil {
		logger.Errorf(nil, "error removing guild %s, %s", g.ID, err)
		return
	}

	logger.Infof(nil, "left guild %s", g.ID)
}

func (eh *handler) InteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	eh.Handle(discord.NewEvent(i))
}

func (eh *handler) Handle(e *discord.Event) {
	logger := log.Logger()

	switch e.Type {
	case discordgo.InteractionApplicationCommand:
		c := eh.registry.Command(e.CommandName())
		if c == nil {
			logger.Warningf(e, "unknown command %s", e.CommandName())
			return
		}
		metrics.CommandsHandled.WithLabelValues(c.Name(), interactionCommand).Inc()
		go c.Execute(e)
	case discordgo.InteractionMessageComponent:
		c := eh.registry.CommandForCustomID(e.CustomID())
		h, ok := c.(commands.ComponentHandler)
		if !ok {
			logger.Warningf(e, "no handler for component %s", e.CustomID())
			return
		}
		metrics.CommandsHandled.WithLabelValues(c.Name(), interactionComponent).Inc()
		go h.HandleComponent(e)
	case discordgo.InteractionModalSubmit:
		c := eh.registry.CommandForCustomID(e.CustomID())
		h, ok := c.(commands.ModalHandler)
		if !ok {
			logger.Warningf(e, "no handler for modal %s", e.CustomID())
			return
		}
		metrics.CommandsHandled.WithLabelValues(c.Name(), interactionModal).Inc()
		go h.HandleModal(e)
	default:
		logger.Debugf(e, "ignoring interaction of type %s", e.Type)
	}
}
