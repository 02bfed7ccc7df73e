package models

import (
	"time"
)

type Guild struct {
	ID             uint64    `gorm:"primaryKey" firestore:"id"`
	DiscordGuildID string    `gorm:"uniqueIndex;not null;type:varchar(32)" firestore:"discord_guild_id"`
	GuildOwnerID   string    `gorm:"not null;type:varchar(32)" firestore:"guild_owner_id"`
	LoggedIn       bool      `gorm:"not null;default:false" firestore:"logged_in"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func (Guild) TableName() string {
	return "guilds"
}

func NewGuild(discordGuildID, ownerID string) *Guild {
	return &Guild{
		DiscordGuildID: discordGuildID,
		GuildOwnerID:   ownerID,
		LoggedIn:       false,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
