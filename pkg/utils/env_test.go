package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvBool(t *testing.T) {
	t.Setenv("WAITLIST_FLAG", "true")
	assert.True(t, GetEnvBool("WAITLIST_FLAG", false))

	t.Setenv("WAITLIST_FLAG", "nope")
	assert.True(t, GetEnvBool("WAITLIST_FLAG", true))

	t.Setenv("WAITLIST_FLAG", "")
	assert.False(t, GetEnvBool("WAITLIST_FLAG", false))
}

func TestGetEnvPositiveDuration(t *testing.T) {
	t.Setenv("WAITLIST_TIMEOUT", "15s")
	assert.Equal(t, 15*time.Second, GetEnvPositiveDuration("WAITLIST_TIMEOUT", time.Second))

	t.Setenv("WAITLIST_TIMEOUT", "-3s")
	assert.Equal(t, time.Second, GetEnvPositiveDuration("WAITLIST_TIMEOUT", time.Second))
}

func TestGetEnvPositiveInt64(t *testing.T) {
	t.Setenv("WAITLIST_BYTES", "2048")
	assert.Equal(t, int64(2048), GetEnvPositiveInt64("WAITLIST_BYTES", 1))

	t.Setenv("WAITLIST_BYTES", "0")
	assert.Equal(t, int64(1), GetEnvPositiveInt64("WAITLIST_BYTES", 1))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, SplitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, SplitList(" , "))
}
