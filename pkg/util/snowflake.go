package util

import (
	"fmt"
	"time"
)

// DiscordEpoch is the first millisecond of 2015, the zero point of every snowflake.
const DiscordEpoch int64 = 1420070400000

// Low 22 bits hold worker, process and increment.
const snowflakeTimestampShift = 22

// ParseSnowflake decodes a snowflake string into its 64-bit value.
func ParseSnowflake(snowflake string) (uint64, error) {
	id, err := StringToUint64(snowflake)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", snowflake, err)
	}
	return id, nil
}

// SnowflakeMillis returns the unix time in milliseconds encoded in the snowflake.
func SnowflakeMillis(id uint64) int64 {
	return int64(id>>snowflakeTimestampShift) + DiscordEpoch
}

// SnowflakeTimestamp converts a snowflake to whole unix seconds.
// Unparsable input yields 0.
// See https://discord.com/developers/docs/reference#snowflakes
func SnowflakeTimestamp(snowflake string) int64 {
	id, err := ParseSnowflake(snowflake)
	if err != nil {
		return 0
	}
	return SnowflakeMillis(id) / 1000
}

// SnowflakeTime returns the creation time encoded in the snowflake.
func SnowflakeTime(snowflake string) time.Time {
	id, err := ParseSnowflake(snowflake)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(SnowflakeMillis(id)).UTC()
}
