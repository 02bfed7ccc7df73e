package store

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"os"
	"path/filepath"
	"tldr/pkg/models"
)

type sqliteStore struct {
	db *gorm.DB
}

// NewSQLite opens (creating when absent) the database at path and migrates the schema.
func NewSQLite(path string) (Store, error) {
	if dir := filepath.Dir(path); len(dir) > 0 {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory, %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database, %w", err)
	}

	if err = db.AutoMigrate(&models.Guild{}, &models.Credential{}, &models.Member{}, &models.SummaryRecord{}); err != nil {
		return nil, fmt.Errorf("error migrating database, %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *sqliteStore) AddGuild(ctx context.Context, discordGuildID, ownerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Guild{}).Where("discord_guild_id = ?", discordGuildID).Count(&count).Error; err != nil {
			return fmt.Errorf("error looking up guild, %w", err)
		}
		if count > 0 {
			return nil
		}

		if err := tx.Create(models.NewGuild(discordGuildID, ownerID)).Error; err != nil {
			return fmt.Errorf("error creating guild, %w", err)
		}
		return nil
	})
}

func (s *sqliteStore) RemoveGuild(ctx context.Context, discordGuildID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guild, err := findGuild(tx, discordGuildID)
		if err != nil {
			return err
		}

		if err = tx.Where("guild_id = ?", guild.ID).Delete(&models.Credential{}).Error; err != nil {
			return fmt.Errorf("error deleting credentials, %w", err)
		}
		if err = tx.Where("guild_id = ?", guild.ID).Delete(&models.Member{}).Error; err != nil {
			return fmt.Errorf("error deleting members, %w", err)
		}
		if err = tx.Where("guild_id = ?", guild.ID).Delete(&models.SummaryRecord{}).Error; err != nil {
			return fmt.Errorf("error deleting summaries, %w", err)
		}
		if err = tx.Delete(guild).Error; err != nil {
			return fmt.Errorf("error deleting guild, %w", err)
		}
		return nil
	})
}

func (s *sqliteStore) GuildID(ctx context.Context, discordGuildID string) (uint64, error) {
	guild, err := s.Guild(ctx, discordGuildID)
	if err != nil {
		return 0, err
	}
	return guild.ID, nil
}

func (s *sqliteStore) Guild(ctx context.Context, discordGuildID string) (*models.Guild, error) {
	return findGuild(s.db.WithContext(ctx), discordGuildID)
}

func (s *sqliteStore) AuthenticateGuild(ctx context.Context, guildID uint64, email, token string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Guild{}).Where("id = ?", guildID).Update("logged_in", true)
		if result.Error != nil {
			return fmt.Errorf("error updating guild, %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrGuildNotFound
		}

		if err := tx.Create(models.NewCredential(guildID, email, token)).Error; err != nil {
			return fmt.Errorf("error storing credentials, %w", err)
		}
		return nil
	})
}

func (s *sqliteStore) UnauthenticateGuild(ctx context.Context, discordGuildID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guild, err := findGuild(tx, discordGuildID)
		if err != nil {
			return err
		}

		if err = tx.Model(guild).Update("logged_in", false).Error; err != nil {
			return fmt.Errorf("error updating guild, %w", err)
		}
		if err = tx.Where("guild_id = ?", guild.ID).Delete(&models.Credential{}).Error; err != nil {
			return fmt.Errorf("error deleting credentials, %w", err)
		}
		return nil
	})
}

func (s *sqliteStore) IsGuildAuthenticated(ctx context.Context, discordGuildID string) (bool, error) {
	guild, err := s.Guild(ctx, discordGuildID)
	if err != nil {
		return false, err
	}
	return guild.LoggedIn, nil
}

func (s *sqliteStore) GuildToken(ctx context.Context, discordGuildID string) (string, error) {
	db := s.db.WithContext(ctx)

	guild, err := findGuild(db, discordGuildID)
	if err != nil {
		return "", err
	}

	var credential models.Credential
	err = db.Where("guild_id = ?", guild.ID).Order("created_at desc").Order("id desc").First(&credential).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrCredentialsNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error looking up credentials, %w", err)
	}

	return credential.Token, nil
}

func (s *sqliteStore) StoreSummaryID(ctx context.Context, discordGuildID, summaryID string) (*models.SummaryRecord, error) {
	var record *models.SummaryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guild, err := findGuild(tx, discordGuildID)
		if err != nil {
			return err
		}

		record, err = models.NewSummaryRecord(guild.ID, summaryID)
		if err != nil {
			return err
		}
		if err = tx.Create(record).Error; err != nil {
			return fmt.Errorf("error storing summary id, %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *sqliteStore) Summaries(ctx context.Context, discordGuildID string) ([]*models.SummaryRecord, error) {
	db := s.db.WithContext(ctx)

	guild, err := findGuild(db, discordGuildID)
	if err != nil {
		return nil, err
	}

	records := make([]*models.SummaryRecord, 0)
	if err = db.Where("guild_id = ?", guild.ID).Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error listing summaries, %w", err)
	}
	return records, nil
}

func findGuild(db *gorm.DB, discordGuildID string) (*models.Guild, error) {
	var guild models.Guild
	err := db.Where("discord_guild_id = ?", discordGuildID).First(&guild).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGuildNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up guild, %w", err)
	}
	return &guild, nil
}
