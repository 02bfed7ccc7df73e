package discord

import (
	"context"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
	"tldr/pkg/config"
)

const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

// Discord is the subset of the gateway and REST API the bot uses.
type Discord interface {
	Open() error
	Close() error
	ApplicationID() string
	AddHandler(handler any) func()
	RegisterCommands(guildID string, commands []*discordgo.ApplicationCommand) error
	Guild(guildID string) (*discordgo.Guild, error)
	Channel(channelID string) (*discordgo.Channel, error)
	ChannelMessages(channelID, afterID string, limit int) ([]*discordgo.Message, error)
	SendDirectMessage(ctx context.Context, userID, content string) error
	Respond(interaction *discordgo.Interaction, response *discordgo.InteractionResponse) error
	EditResponse(interaction *discordgo.Interaction, edit *discordgo.WebhookEdit) error
}

type service struct {
	session *discordgo.Session
	dm      *rate.Limiter
}

func NewDiscord(cfg *config.Config) (Discord, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session, %w", err)
	}
	session.Identify.Intents = Intents

	limit := rate.Inf
	if cfg.Discord.DMRatePerSecond > 0 {
		limit = rate.Limit(cfg.Discord.DMRatePerSecond)
	}

	return &service{
		session: session,
		dm:      rate.NewLimiter(limit, 1),
	}, nil
}

func (s *service) Open() error {
	return s.session.Open()
}

func (s *service) Close() error {
	return s.session.Close()
}

func (s *service) ApplicationID() string {
	if s.session.State == nil || s.session.State.User == nil {
		return ""
	}
	return s.session.State.User.ID
}

func (s *service) AddHandler(handler any) func() {
	return s.session.AddHandler(handler)
}

// RegisterCommands replaces the application's commands, globally when guildID is empty.
func (s *service) RegisterCommands(guildID string, commands []*discordgo.ApplicationCommand) error {
	if _, err := s.session.ApplicationCommandBulkOverwrite(s.ApplicationID(), guildID, commands); err != nil {
		return fmt.Errorf("error registering commands, %w", err)
	}
	return nil
}

func (s *service) Guild(guildID string) (*discordgo.Guild, error) {
	if g, err := s.session.State.Guild(guildID); err == nil {
		return g, nil
	}
	return s.session.Guild(guildID)
}

func (s *service) Channel(channelID string) (*discordgo.Channel, error) {
	if c, err := s.session.State.Channel(channelID); err == nil {
		return c, nil
	}
	return s.session.Channel(channelID)
}

func (s *service) ChannelMessages(channelID, afterID string, limit int) ([]*discordgo.Message, error) {
	return s.session.ChannelMessages(channelID, limit, "", afterID, "")
}

func (s *service) SendDirectMessage(ctx context.Context, userID, content string) error {
	if err := s.dm.Wait(ctx); err != nil {
		return err
	}

	channel, err := s.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error opening direct message channel, %w", err)
	}

	if _, err = s.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error sending direct message, %w", err)
	}

	return nil
}

func (s *service) Respond(interaction *discordgo.Interaction, response *discordgo.InteractionResponse) error {
	return s.session.InteractionRespond(interaction, response)
}

func (s *service) EditResponse(interaction *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := s.session.InteractionResponseEdit(interaction, edit)
	return err
}
