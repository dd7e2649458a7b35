package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAndGet(t *testing.T) {
	m := NewManager(time.Second)

	assert.Nil(t, m.Get("u1"))

	m.Post("u1", Success, "tender published")

	alert := m.Get("u1")
	require.NotNil(t, alert)
	assert.Equal(t, Success, alert.Severity)
	assert.Equal(t, "tender published", alert.Message)

	// У другого пользователя своё уведомление.
	assert.Nil(t, m.Get("u2"))
}

func TestAlertAutoClears(t *testing.T) {
	m := NewManager(40 * time.Millisecond)

	m.Post("u1", Info, "hello")
	require.NotNil(t, m.Get("u1"))

	time.Sleep(100 * time.Millisecond)
	assert.Nil(t, m.Get("u1"))
}

func TestNewAlertReplacesAndRestartsTimer(t *testing.T) {
	m := NewManager(60 * time.Millisecond)

	m.Post("u1", Warning, "first")
	time.Sleep(40 * time.Millisecond)

	// Второе уведомление вытесняет первое и перезапускает таймер:
	// сброс первого не должен задеть второе.
	m.Post("u1", Error, "second")
	time.Sleep(40 * time.Millisecond)

	alert := m.Get("u1")
	require.NotNil(t, alert)
	assert.Equal(t, Error, alert.Severity)
	assert.Equal(t, "second", alert.Message)

	time.Sleep(60 * time.Millisecond)
	assert.Nil(t, m.Get("u1"))
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	m := NewManager(0)
	assert.Equal(t, DefaultTTL, m.ttl)
}
