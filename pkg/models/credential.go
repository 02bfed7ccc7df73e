package models

import (
	"time"
)

// Credential is a Wordcab account bound to a guild. A guild may accumulate several; the most
// recently created one is the active credential.
type Credential struct {
	ID        uint64    `gorm:"primaryKey" firestore:"id"`
	Email     string    `gorm:"not null" firestore:"email"`
	Token     string    `gorm:"not null" firestore:"token"`
	GuildID   uint64    `gorm:"index;not null" firestore:"guild_id"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

func NewCredential(guildID uint64, email, token string) *Credential {
	return &Credential{
		Email:     email,
		Token:     token,
		GuildID:   guildID,
		CreatedAt: time.Now(),
	}
}
