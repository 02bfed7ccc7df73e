package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Event is an interaction received from the gateway.
type Event struct {
	*discordgo.InteractionCreate
}

func NewEvent(i *discordgo.InteractionCreate) *Event {
	return &Event{InteractionCreate: i}
}

func (e *Event) User() *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	return e.Interaction.User
}

func (e *Event) UserID() string {
	if u := e.User(); u != nil {
		return u.ID
	}
	return ""
}

func (e *Event) UserName() string {
	if u := e.User(); u != nil {
		return u.Username
	}
	return ""
}

func (e *Event) CommandName() string {
	if e.Type != discordgo.InteractionApplicationCommand {
		return ""
	}
	return e.ApplicationCommandData().Name
}

func (e *Event) CustomID() string {
	switch e.Type {
	case discordgo.InteractionMessageComponent:
		return e.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return e.ModalSubmitData().CustomID
	}
	return ""
}

func (e *Event) option(name string) *discordgo.ApplicationCommandInteractionDataOption {
	if e.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	for _, o := range e.ApplicationCommandData().Options {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (e *Event) StringOption(name, fallback string) string {
	if o := e.option(name); o != nil {
		return o.StringValue()
	}
	return fallback
}

func (e *Event) BoolOption(name string, fallback bool) bool {
	if o := e.option(name); o != nil {
		return o.BoolValue()
	}
	return fallback
}

// ModalValue returns the submitted value of the text input with the given custom id.
func (e *Event) ModalValue(customID string) string {
	if e.Type != discordgo.InteractionModalSubmit {
		return ""
	}
	for _, c := range e.ModalSubmitData().Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

func (e *Event) Labels() map[string]string {
	labels := map[string]string{
		"interaction_id": e.ID,
		"guild_id":       e.GuildID,
		"channel_id":     e.ChannelID,
		"user_id":        e.UserID(),
	}
	if name := e.CommandName(); len(name) > 0 {
		labels["command"] = name
	}
	return labels
}
