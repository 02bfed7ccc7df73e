package commands

import (
	"fmt"
	"github.com/bwmarrin/discordgo"
	"slices"
	"strings"
	"time"
	"tldr/pkg/api/collector"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/api/elapse"
	"tldr/pkg/api/jobs"
	"tldr/pkg/api/style"
	"tldr/pkg/log"
	"tldr/pkg/metrics"
)

const (
	summarizeCommandName = "summarize"

	sizeOption        = "size"
	timeframeOption   = "timeframe"
	includeChatOption = "include_chat"
	languageOption    = "language"
)

var summarySizes = map[string]int{
	"short":  1,
	"medium": 3,
	"long":   5,
}

const (
	invalidSizeMessage      = "Invalid size. Choose from `short`, `medium`, and `long`."
	invalidTimeframeMessage = "Invalid timeframe. Use an expression such as `1w`, `3d`, `45min` or `2h30min`."
	invalidLanguageMessage  = "Invalid language. Choose from %s."
	unauthenticatedMessage  = "This guild is not authenticated. Please run `/%s` first."
	nothingMessage          = "No messages to summarize."
	notEnoughMessage        = "Not enough messages to summarize."
	launchedMessage         = "Summarization job launched: %s\n\nYou should receive the summary in your DM soon! 👌"
	truncatedMessage        = "\n\n⚠️ To avoid summary alteration, the chats used for the summary has been truncated to %d characters."
)

type summarizeCommand struct {
	*commandStub
}

func NewSummarizeCommand(ctx context.Context) Command {
	return &summarizeCommand{
		commandStub: newCommandStub(ctx),
	}
}

func (c *summarizeCommand) Name() string {
	return summarizeCommandName
}

func (c *summarizeCommand) Description() string {
	return "Launch a Wordcab summarization job."
}

func (c *summarizeCommand) Definition() *discordgo.ApplicationCommand {
	sizes := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(summarySizes))
	for _, name := range []string{"short", "medium", "long"} {
		sizes = append(sizes, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}

	languages := make([]*discordgo.ApplicationCommandOptionChoice, 0)
	for _, l := range c.ctx.Config().Summarize.Languages {
		languages = append(languages, &discordgo.ApplicationCommandOptionChoice{Name: l, Value: l})
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        sizeOption,
				Description: "The size of the summary.",
				Required:    true,
				Choices:     sizes,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        timeframeOption,
				Description: "The timeframe of the messages to summarize, e.g. 1w, 3d, 45min, 2h30min.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        includeChatOption,
				Description: "Also send the chats used for the summary.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        languageOption,
				Description: "The language of the chat.",
				Choices:     languages,
			},
		},
	}
}

func (c *summarizeCommand) Execute(e *discord.Event) {
	logger := log.Logger()
	logger.Infof(e, "⚡ %s [%s/%s]", c.Name(), e.UserName(), e.GuildID)

	cfg := c.ctx.Config()

	size := e.StringOption(sizeOption, "")
	length, ok := summarySizes[size]
	if !ok {
		c.Reply(e, invalidSizeMessage)
		return
	}

	timeframe := strings.TrimSpace(e.StringOption(timeframeOption, ""))
	window, err := elapse.ParseDuration(timeframe)
	if err != nil {
		logger.Debugf(e, "invalid timeframe %q, %s", timeframe, err)
		c.Reply(e, invalidTimeframeMessage)
		return
	}

	language := e.StringOption(languageOption, cfg.Summarize.DefaultLanguage)
	if len(cfg.Summarize.Languages) > 0 && !slices.Contains(cfg.Summarize.Languages, language) {
		c.Replyf(e, invalidLanguageMessage, languageList(cfg.Summarize.Languages))
		return
	}

	authenticated, err := c.Authorizer().IsGuildAuthenticated(e)
	if err != nil {
		c.ErrorReply(e, err)
		return
	}
	if !authenticated {
		c.Replyf(e, unauthenticatedMessage, loginCommandName)
		return
	}

	token, err := c.ctx.Store().GuildToken(c.ctx, e.GuildID)
	if err != nil {
		c.ErrorReply(e, err)
		return
	}

	if !c.DeferReply(e) {
		return
	}

	startedAt := time.Now()

	guild, err := c.ctx.Discord().Guild(e.GuildID)
	if err != nil {
		c.EditErrorReply(e, err)
		return
	}

	channel, err := c.ctx.Discord().Channel(e.ChannelID)
	if err != nil {
		c.EditErrorReply(e, err)
		return
	}

	collection, err := collector.Collect(c.ctx, c.ctx.Discord(), e.ChannelID, startedAt.Add(-window), cfg.Summarize.MaxChars)
	if err != nil {
		c.EditErrorReply(e, err)
		return
	}
	metrics.ChatCharacters.Observe(float64(collection.TotalChars))

	switch collector.Evaluate(collection.TotalChars, cfg.Summarize.MinChars) {
	case collector.Nothing:
		c.EditReply(e, nothingMessage)
		return
	case collector.NotEnough:
		c.EditReply(e, notEnoughMessage)
		return
	}

	r := &jobs.Request{
		Token:         token,
		GuildID:       e.GuildID,
		GuildName:     guild.Name,
		ChannelName:   channel.Name,
		UserID:        e.UserID(),
		UserName:      e.UserName(),
		SummaryLength: length,
		Timeframe:     timeframe,
		Language:      language,
		IncludeChat:   e.BoolOption(includeChatOption, false),
		Messages:      collection.Messages,
		TotalChars:    collection.TotalChars,
		StartedAt:     startedAt,
	}

	job, err := c.ctx.Lifecycle().Submit(c.ctx, r)
	if err != nil {
		c.EditErrorReply(e, err)
		return
	}

	logger.Infof(r, "%s - %s: summary of size %s with %d chars launched.", e.UserName(), guild.Name, size, collection.TotalChars)

	message := fmt.Sprintf(launchedMessage, style.Code(job.JobName))
	if collection.Truncated {
		message += fmt.Sprintf(truncatedMessage, cfg.Summarize.MaxChars)
	}
	c.EditReply(e, message)

	jobName := job.JobName
	if !c.ctx.Jobs().Start(c.ctx, jobName, c.ctx.Lifecycle().Runner(r, jobName)) {
		logger.Warningf(r, "%s is already being tracked", jobName)
	}
}

func languageList(languages []string) string {
	quoted := make([]string, len(languages))
	for i, l := range languages {
		quoted[i] = style.Code(l)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1]
}
