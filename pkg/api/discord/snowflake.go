package discord

import (
	"strconv"
	"time"
)

// Epoch is the first millisecond of 2015, the zero point of Discord snowflakes.
const Epoch int64 = 1420070400000

// SnowflakeFromTime returns the smallest snowflake created at t, for use as a history bound.
func SnowflakeFromTime(t time.Time) string {
	ms := t.UnixMilli() - Epoch
	if ms <= 0 {
		return "0"
	}
	return strconv.FormatUint(uint64(ms)<<22, 10)
}
