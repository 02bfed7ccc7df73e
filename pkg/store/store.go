package store

import (
	"context"
	"errors"
	"fmt"
	"tldr/pkg/config"
	"tldr/pkg/models"
)

var (
	ErrGuildNotFound       = errors.New("guild not found")
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// Store persists guilds, their Wordcab credentials and the summaries generated for them.
type Store interface {
	AddGuild(ctx context.Context, discordGuildID, ownerID string) error
	RemoveGuild(ctx context.Context, discordGuildID string) error
	GuildID(ctx context.Context, discordGuildID string) (uint64, error)
	Guild(ctx context.Context, discordGuildID string) (*models.Guild, error)
	AuthenticateGuild(ctx context.Context, guildID uint64, email, token string) error
	UnauthenticateGuild(ctx context.Context, discordGuildID string) error
	IsGuildAuthenticated(ctx context.Context, discordGuildID string) (bool, error)
	GuildToken(ctx context.Context, discordGuildID string) (string, error)
	StoreSummaryID(ctx context.Context, discordGuildID, summaryID string) (*models.SummaryRecord, error)
	Summaries(ctx context.Context, discordGuildID string) ([]*models.SummaryRecord, error)
	Close() error
}

func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		return NewSQLite(cfg.DatabasePath())
	case config.StorageDriverFirestore:
		return NewFirestore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver, %s", cfg.Storage.Driver)
	}
}
