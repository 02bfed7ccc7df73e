package models

import (
	"fmt"
	"github.com/sqids/sqids-go"
	"sync/atomic"
	"time"
)

type SummaryRecord struct {
	ID        uint64    `gorm:"primaryKey" firestore:"id"`
	GuildID   uint64    `gorm:"index;not null" firestore:"guild_id"`
	SummaryID string    `gorm:"not null" firestore:"summary_id"`
	Reference string    `gorm:"index" firestore:"reference"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (SummaryRecord) TableName() string {
	return "summaries"
}

// referenceSequence separates references created within the same millisecond.
var referenceSequence atomic.Uint64

func NewSummaryRecord(guildID uint64, summaryID string) (*SummaryRecord, error) {
	now := time.Now()

	ref, err := summaryReference(now, referenceSequence.Add(1))
	if err != nil {
		return nil, err
	}

	return &SummaryRecord{
		GuildID:   guildID,
		SummaryID: summaryID,
		Reference: ref,
		CreatedAt: now,
	}, nil
}

func summaryReference(t time.Time, sequence uint64) (string, error) {
	s, err := sqids.New()
	if err != nil {
		return "", fmt.Errorf("error creating reference encoder, %w", err)
	}

	ref, err := s.Encode([]uint64{uint64(t.UnixMilli()), sequence})
	if err != nil {
		return "", fmt.Errorf("error encoding summary reference, %w", err)
	}

	return ref, nil
}
