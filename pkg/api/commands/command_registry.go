package commands

import (
	"github.com/bwmarrin/discordgo"
	"sort"
	"tldr/pkg/api/context"
)

type CommandRegistry interface {
	Command(name string) Command
	Commands() map[string]Command
	CommandForCustomID(customID string) Command
	Definitions() []*discordgo.ApplicationCommand
	RegisterCommands()
}

type commandRegistry struct {
	ctx      context.Context
	commands map[string]Command
}

func NewCommandRegistry(ctx context.Context) CommandRegistry {
	cr := &commandRegistry{
		ctx:      ctx,
		commands: make(map[string]Command),
	}

	cr.RegisterCommands()
	return cr
}

func (cr *commandRegistry) Command(name string) Command {
	if c, ok := cr.commands[name]; ok {
		return c
	}

	return nil
}

func (cr *commandRegistry) Commands() map[string]Command {
	return cr.commands
}

func (cr *commandRegistry) CommandForCustomID(customID string) Command {
	return cr.Command(commandNameFromCustomID(customID))
}

// Definitions lists the slash command definitions, sorted by name.
func (cr *commandRegistry) Definitions() []*discordgo.ApplicationCommand {
	definitions := make([]*discordgo.ApplicationCommand, 0, len(cr.commands))
	for _, c := range cr.commands {
		definitions = append(definitions, c.Definition())
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions
}

func (cr *commandRegistry) RegisterCommands() {
	cr.commands[loginCommandName] = NewLoginCommand(cr.ctx)
	cr.commands[logoutCommandName] = NewLogoutCommand(cr.ctx)
	cr.commands[summarizeCommandName] = NewSummarizeCommand(cr.ctx)
}
