package models

import (
	"strconv"
	"time"
)

const usageTimeLayout = "2006-01-02 15:04:05.000000"

var UsageHeader = []string{
	"user",
	"guild_name",
	"summary_size",
	"timeframe",
	"language",
	"include_chat",
	"time_started",
	"time_completed",
	"response_time",
}

// Usage is one delivered summary, as recorded in the usage metrics files.
type Usage struct {
	User          string    `json:"user"`
	GuildName     string    `json:"guild_name"`
	SummarySize   string    `json:"summary_size"`
	Timeframe     string    `json:"timeframe"`
	Language      string    `json:"language"`
	IncludeChat   bool      `json:"include_chat"`
	TimeStarted   time.Time `json:"time_started"`
	TimeCompleted time.Time `json:"time_completed"`
}

func (u *Usage) ResponseTime() time.Duration {
	return u.TimeCompleted.Sub(u.TimeStarted)
}

func (u *Usage) Row() []string {
	return []string{
		u.User,
		u.GuildName,
		u.SummarySize,
		u.Timeframe,
		u.Language,
		strconv.FormatBool(u.IncludeChat),
		u.TimeStarted.Format(usageTimeLayout),
		u.TimeCompleted.Format(usageTimeLayout),
		strconv.FormatFloat(u.ResponseTime().Seconds(), 'f', -1, 64),
	}
}
