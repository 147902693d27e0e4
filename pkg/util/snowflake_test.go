package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeTimestamp(t *testing.T) {
	t.Run("documented snowflake", func(t *testing.T) {
		// 175928847299117063 was created at 2016-04-30 11:18:25.796 UTC
		assert.Equal(t, int64(1462015105), SnowflakeTimestamp("175928847299117063"))
	})

	t.Run("matches formula on large ids", func(t *testing.T) {
		ids := []uint64{
			1,
			4194304,
			1147876446458314813,
			9223372036854775807,
			18446744073709551615,
		}
		for _, id := range ids {
			want := (int64(id>>22) + 1420070400000) / 1000
			assert.Equal(t, want, SnowflakeTimestamp(strconv.FormatUint(id, 10)), "id %d", id)
		}
	})

	t.Run("does not truncate to 32 bits", func(t *testing.T) {
		ts := SnowflakeTimestamp("9223372036854775807")
		assert.Greater(t, ts, int64(1<<31-1))
	})

	t.Run("zero snowflake is the epoch", func(t *testing.T) {
		assert.Equal(t, DiscordEpoch/1000, SnowflakeTimestamp("0"))
	})

	t.Run("garbage yields zero", func(t *testing.T) {
		assert.Equal(t, int64(0), SnowflakeTimestamp("not-a-snowflake"))
	})
}

func TestSnowflakeTime(t *testing.T) {
	got := SnowflakeTime("175928847299117063")
	want := time.Date(2016, time.April, 30, 11, 18, 25, 796*int(time.Millisecond), time.UTC)
	assert.True(t, want.Equal(got), "got %s", got)

	assert.True(t, SnowflakeTime("").IsZero())
}

func TestParseSnowflake(t *testing.T) {
	id, err := ParseSnowflake("175928847299117063")
	require.NoError(t, err)
	assert.Equal(t, uint64(175928847299117063), id)

	_, err = ParseSnowflake("-1")
	assert.Error(t, err)
}
