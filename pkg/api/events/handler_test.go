package events

import (
	stdcontext "context"
	"errors"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"tldr/pkg/api/context"
	"tldr/pkg/api/discord"
	"tldr/pkg/config"
	"tldr/pkg/log"
	"tldr/pkg/store"
	"tldr/pkg/usage"
	"tldr/pkg/wordcab"
)

func TestMain(m *testing.M) {
	log.SetLogger(log.NewZapLogger(zap.NewNop()))
	os.Exit(m.Run())
}

type fakeDiscord struct {
	mu            sync.Mutex
	guilds        map[string]*discordgo.Guild
	registrations map[string]int
	responses     []*discordgo.InteractionResponse
}

func (d *fakeDiscord) Open() error                   { return nil }
func (d *fakeDiscord) Close() error                  { return nil }
func (d *fakeDiscord) ApplicationID() string         { return "app" }
func (d *fakeDiscord) AddHandler(handler any) func() { return func() {} }

func (d *fakeDiscord) RegisterCommands(guildID string, commands []*discordgo.ApplicationCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registrations[guildID] = len(commands)
	return nil
}

func (d *fakeDiscord) Guild(guildID string) (*discordgo.Guild, error) {
	if g, ok := d.guilds[guildID]; ok {
		return g, nil
	}
	return nil, errors.New("HTTP 403 Forbidden")
}

func (d *fakeDiscord) Channel(channelID string) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: channelID, Name: "general"}, nil
}

func (d *fakeDiscord) ChannelMessages(string, string, int) ([]*discordgo.Message, error) {
	return nil, nil
}

func (d *fakeDiscord) SendDirectMessage(stdcontext.Context, string, string) error {
	return nil
}

func (d *fakeDiscord) Respond(_ *discordgo.Interaction, response *discordgo.InteractionResponse) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responses = append(d.responses, response)
	return nil
}

func (d *fakeDiscord) EditResponse(*discordgo.Interaction, *discordgo.WebhookEdit) error {
	return nil
}

func (d *fakeDiscord) registered(guildID string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.registrations[guildID]
	return n, ok
}

func (d *fakeDiscord) responseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.responses)
}

type fakeWordcab struct{}

func (fakeWordcab) CheckCredentials(stdcontext.Context, string, string) error { return nil }
func (fakeWordcab) StartSummary(stdcontext.Context, string, *wordcab.SummaryRequest) (*wordcab.Job, error) {
	return nil, errors.New("unexpected submission")
}
func (fakeWordcab) RetrieveJob(stdcontext.Context, string, string) (*wordcab.Job, error) {
	return nil, errors.New("unexpected poll")
}
func (fakeWordcab) RetrieveSummary(stdcontext.Context, string, string) (*wordcab.Summary, error) {
	return nil, errors.New("unexpected retrieval")
}
func (fakeWordcab) DeleteJob(stdcontext.Context, string, string) error { return nil }

func newTestHandler(t *testing.T, testingGuildID string) (Handler, *fakeDiscord, store.Store) {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Discord.TestingGuildID = testingGuildID

	s, err := store.NewSQLite(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("error opening store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	d := &fakeDiscord{
		guilds: map[string]*discordgo.Guild{
			"100": {ID: "100", Name: "gophers", OwnerID: "300"},
		},
		registrations: make(map[string]int),
	}

	ctx := context.NewContext(stdcontext.Background(), context.Dependencies{
		Config:  cfg,
		Store:   s,
		Wordcab: fakeWordcab{},
		Discord: d,
		Usage:   usage.NewCSVTracker(cfg.MetricsDir()),
	})

	return NewHandler(ctx), d, s
}

func TestReadyRegistersCommands(t *testing.T) {
	h, d, s := newTestHandler(t, "100")

	h.Ready(nil, &discordgo.Ready{User: &discordgo.User{Username: "tldr", Discriminator: "0"}})

	if n, ok := d.registered(""); !ok || n != 3 {
		t.Errorf("global registration = %d, %v", n, ok)
	}
	if n, ok := d.registered("100"); !ok || n != 3 {
		t.Errorf("testing guild registration = %d, %v", n, ok)
	}

	g, err := s.Guild(stdcontext.Background(), "100")
	if err != nil {
		t.Fatalf("testing guild not stored: %v", err)
	}
	if g.GuildOwnerID != "300" {
		t.Errorf("owner = %s, want 300", g.GuildOwnerID)
	}
}

func TestReadyWithoutTestingGuildAccess(t *testing.T) {
	h, d, s := newTestHandler(t, "999")

	h.Ready(nil, &discordgo.Ready{})

	if _, ok := d.registered(""); !ok {
		t.Error("global commands were not registered")
	}
	if _, ok := d.registered("999"); ok {
		t.Error("commands registered on an inaccessible guild")
	}
	if _, err := s.Guild(stdcontext.Background(), "999"); !errors.Is(err, store.ErrGuildNotFound) {
		t.Errorf("unexpected guild lookup error: %v", err)
	}
}

func TestGuildLifecycle(t *testing.T) {
	h, d, s := newTestHandler(t, "")
	ctx := stdcontext.Background()
	guild := &discordgo.Guild{ID: "500", Name: "rustaceans", OwnerID: "600"}

	h.GuildCreate(nil, &discordgo.GuildCreate{Guild: guild})
	if _, err := s.Guild(ctx, "500"); err != nil {
		t.Fatalf("guild not stored: %v", err)
	}
	if n, ok := d.registered("500"); ok {
		t.Errorf("%d guild-scoped commands registered on joined guild", n)
	}

	h.GuildDelete(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "500", Unavailable: true}})
	if _, err := s.Guild(ctx, "500"); err != nil {
		t.Errorf("guild removed during an outage: %v", err)
	}

	h.GuildDelete(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "500"}})
	if _, err := s.Guild(ctx, "500"); !errors.Is(err, store.ErrGuildNotFound) {
		t.Errorf("guild still stored after removal: %v", err)
	}
}

func TestHandleRoutesCommands(t *testing.T) {
	h, d, _ := newTestHandler(t, "")

	event := func(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discord.Event {
		return discord.NewEvent(&discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				Type:    discordgo.InteractionApplicationCommand,
				GuildID: "100",
				Member:  &discordgo.Member{User: &discordgo.User{ID: "400", Username: "alice"}},
				Data:    discordgo.ApplicationCommandInteractionData{Name: name, Options: options},
			},
		})
	}

	h.Handle(event("unknown"))
	h.Handle(discord.NewEvent(&discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: "unknown:button"},
		},
	}))

	h.Handle(event("summarize", &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "size",
		Type:  discordgo.ApplicationCommandOptionString,
		Value: "huge",
	}))

	deadline := time.Now().Add(2 * time.Second)
	for d.responseCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("summarize was not executed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(20 * time.Millisecond)
	if n := d.responseCount(); n != 1 {
		t.Fatalf("got %d responses, want 1", n)
	}
	if got := d.responses[0].Data.Content; !strings.HasPrefix(got, "Invalid size.") {
		t.Errorf("reply = %q", got)
	}
}
