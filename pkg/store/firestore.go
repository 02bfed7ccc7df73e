package store

import (
	"cloud.google.com/go/firestore"
	"context"
	"fmt"
	"google.golang.org/api/option"
	"math"
	"strconv"
	"time"
	"tldr/pkg/config"
	"tldr/pkg/models"
)

const (
	pathGuilds      = "guilds"
	pathCredentials = "credentials"
	pathSummaries   = "summaries"
)

// firestoreStore keeps one document per guild under guilds/<discord guild id>, with credentials and
// summaries as nested collections. The numeric guild id is the Discord snowflake.
type firestoreStore struct {
	client *firestore.Client
}

func NewFirestore(ctx context.Context, cfg *config.Config) (Store, error) {
	opts := make([]option.ClientOption, 0)
	if len(cfg.GoogleCloud.ServiceAccountFilename) > 0 {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCloud.ServiceAccountFilename))
	}

	client, err := firestore.NewClient(ctx, cfg.GoogleCloud.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating firestore client, %w", err)
	}

	return &firestoreStore{client: client}, nil
}

func (fs *firestoreStore) Close() error {
	return fs.client.Close()
}

// The firestore encoder rejects unsigned integers, so documents carry ids as int64. Discord
// snowflakes and UnixNano ids both fit.
type guildDocument struct {
	ID             int64     `firestore:"id"`
	DiscordGuildID string    `firestore:"discord_guild_id"`
	GuildOwnerID   string    `firestore:"guild_owner_id"`
	LoggedIn       bool      `firestore:"logged_in"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func newGuildDocument(g *models.Guild) *guildDocument {
	return &guildDocument{
		ID:             int64(g.ID),
		DiscordGuildID: g.DiscordGuildID,
		GuildOwnerID:   g.GuildOwnerID,
		LoggedIn:       g.LoggedIn,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func (d *guildDocument) model() *models.Guild {
	return &models.Guild{
		ID:             uint64(d.ID),
		DiscordGuildID: d.DiscordGuildID,
		GuildOwnerID:   d.GuildOwnerID,
		LoggedIn:       d.LoggedIn,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type credentialDocument struct {
	ID        int64     `firestore:"id"`
	Email     string    `firestore:"email"`
	Token     string    `firestore:"token"`
	GuildID   int64     `firestore:"guild_id"`
	CreatedAt time.Time `firestore:"created_at"`
}

func newCredentialDocument(c *models.Credential) *credentialDocument {
	return &credentialDocument{
		ID:        int64(c.ID),
		Email:     c.Email,
		Token:     c.Token,
		GuildID:   int64(c.GuildID),
		CreatedAt: c.CreatedAt,
	}
}

type summaryDocument struct {
	ID        int64     `firestore:"id"`
	GuildID   int64     `firestore:"guild_id"`
	SummaryID string    `firestore:"summary_id"`
	Reference string    `firestore:"reference"`
	CreatedAt time.Time `firestore:"created_at"`
}

func newSummaryDocument(r *models.SummaryRecord) *summaryDocument {
	return &summaryDocument{
		ID:        int64(r.ID),
		GuildID:   int64(r.GuildID),
		SummaryID: r.SummaryID,
		Reference: r.Reference,
		CreatedAt: r.CreatedAt,
	}
}

func (d *summaryDocument) model() *models.SummaryRecord {
	return &models.SummaryRecord{
		ID:        uint64(d.ID),
		GuildID:   uint64(d.GuildID),
		SummaryID: d.SummaryID,
		Reference: d.Reference,
		CreatedAt: d.CreatedAt,
	}
}

// parseGuildID reads a snowflake, which must fit an int64 document field.
func parseGuildID(discordGuildID string) (uint64, error) {
	id, err := strconv.ParseUint(discordGuildID, 10, 64)
	if err != nil || id > math.MaxInt64 {
		return 0, fmt.Errorf("invalid guild id, %s", discordGuildID)
	}
	return id, nil
}

func guildPath(discordGuildID string) string {
	return fmt.Sprintf("%s/%s", pathGuilds, discordGuildID)
}

func (fs *firestoreStore) AddGuild(ctx context.Context, discordGuildID, ownerID string) error {
	id, err := parseGuildID(discordGuildID)
	if err != nil {
		return err
	}

	guild := models.NewGuild(discordGuildID, ownerID)
	guild.ID = id

	err = create(ctx, fs.client, guildPath(discordGuildID), newGuildDocument(guild))
	if isAlreadyExists(err) {
		return nil
	}
	return err
}

func (fs *firestoreStore) RemoveGuild(ctx context.Context, discordGuildID string) error {
	if _, err := fs.Guild(ctx, discordGuildID); err != nil {
		return err
	}
	return removeDocument(ctx, fs.client, fs.client.Doc(guildPath(discordGuildID)))
}

func (fs *firestoreStore) GuildID(ctx context.Context, discordGuildID string) (uint64, error) {
	guild, err := fs.Guild(ctx, discordGuildID)
	if err != nil {
		return 0, err
	}
	return guild.ID, nil
}

func (fs *firestoreStore) Guild(ctx context.Context, discordGuildID string) (*models.Guild, error) {
	doc, err := get[guildDocument](ctx, fs.client, guildPath(discordGuildID))
	if isNotFound(err) {
		return nil, ErrGuildNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (fs *firestoreStore) AuthenticateGuild(ctx context.Context, guildID uint64, email, token string) error {
	if guildID > math.MaxInt64 {
		return ErrGuildNotFound
	}
	discordGuildID := strconv.FormatUint(guildID, 10)

	err := update(ctx, fs.client, guildPath(discordGuildID), map[string]any{
		"logged_in":  true,
		"updated_at": time.Now(),
	})
	if isNotFound(err) {
		return ErrGuildNotFound
	}
	if err != nil {
		return err
	}

	credential := models.NewCredential(guildID, email, token)
	credential.ID = uint64(credential.CreatedAt.UnixNano())
	path := fmt.Sprintf("%s/%s/%d", guildPath(discordGuildID), pathCredentials, credential.ID)
	return create(ctx, fs.client, path, newCredentialDocument(credential))
}

func (fs *firestoreStore) UnauthenticateGuild(ctx context.Context, discordGuildID string) error {
	err := update(ctx, fs.client, guildPath(discordGuildID), map[string]any{
		"logged_in":  false,
		"updated_at": time.Now(),
	})
	if isNotFound(err) {
		return ErrGuildNotFound
	}
	if err != nil {
		return err
	}

	cr := fs.client.Collection(fmt.Sprintf("%s/%s", guildPath(discordGuildID), pathCredentials))
	return removeCollection(ctx, fs.client, cr)
}

func (fs *firestoreStore) IsGuildAuthenticated(ctx context.Context, discordGuildID string) (bool, error) {
	guild, err := fs.Guild(ctx, discordGuildID)
	if err != nil {
		return false, err
	}
	return guild.LoggedIn, nil
}

func (fs *firestoreStore) GuildToken(ctx context.Context, discordGuildID string) (string, error) {
	if _, err := fs.Guild(ctx, discordGuildID); err != nil {
		return "", err
	}

	credentials, err := query[credentialDocument](ctx, fs.client, queryCriteria{
		Path:    fmt.Sprintf("%s/%s", guildPath(discordGuildID), pathCredentials),
		OrderBy: []orderBy{{Field: "created_at", Direction: firestore.Desc}},
		Limit:   1,
	})
	if err != nil {
		return "", err
	}
	if len(credentials) == 0 {
		return "", ErrCredentialsNotFound
	}

	return credentials[0].Token, nil
}

func (fs *firestoreStore) StoreSummaryID(ctx context.Context, discordGuildID, summaryID string) (*models.SummaryRecord, error) {
	guild, err := fs.Guild(ctx, discordGuildID)
	if err != nil {
		return nil, err
	}

	record, err := models.NewSummaryRecord(guild.ID, summaryID)
	if err != nil {
		return nil, err
	}
	record.ID = uint64(record.CreatedAt.UnixNano())
	path := fmt.Sprintf("%s/%s/%d", guildPath(discordGuildID), pathSummaries, record.ID)
	if err = create(ctx, fs.client, path, newSummaryDocument(record)); err != nil {
		return nil, err
	}

	return record, nil
}

func (fs *firestoreStore) Summaries(ctx context.Context, discordGuildID string) ([]*models.SummaryRecord, error) {
	if _, err := fs.Guild(ctx, discordGuildID); err != nil {
		return nil, err
	}

	docs, err := query[summaryDocument](ctx, fs.client, queryCriteria{
		Path:    fmt.Sprintf("%s/%s", guildPath(discordGuildID), pathSummaries),
		OrderBy: []orderBy{{Field: "created_at", Direction: firestore.Asc}},
	})
	if err != nil {
		return nil, err
	}

	records := make([]*models.SummaryRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.model())
	}
	return records, nil
}
