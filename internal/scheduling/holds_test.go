package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSlotHolder_AcquireAndBlock(t *testing.T) {
	holder := NewSlotHolder(setupTestRedis(t), time.Minute, nil)
	ctx := context.Background()
	start, end := ClockMinutes(540), ClockMinutes(600)

	hold, err := holder.Acquire(ctx, "dr-1", "2026-03-02", start, end, "session-a")
	require.NoError(t, err)
	require.NotNil(t, hold)
	assert.Equal(t, "session-a", hold.SessionID)

	// Another session cannot take the same slot.
	_, err = holder.Acquire(ctx, "dr-1", "2026-03-02", start, end, "session-b")
	assert.ErrorIs(t, err, ErrSlotHeld)

	// The owner can refresh its own hold.
	refreshed, err := holder.Acquire(ctx, "dr-1", "2026-03-02", start, end, "session-a")
	require.NoError(t, err)
	assert.NotNil(t, refreshed)
}

func TestSlotHolder_HeldByOther(t *testing.T) {
	holder := NewSlotHolder(setupTestRedis(t), time.Minute, nil)
	ctx := context.Background()
	start, end := ClockMinutes(540), ClockMinutes(600)

	assert.False(t, holder.HeldByOther(ctx, "dr-1", "2026-03-02", start, end, "session-b"))

	_, err := holder.Acquire(ctx, "dr-1", "2026-03-02", start, end, "session-a")
	require.NoError(t, err)

	assert.True(t, holder.HeldByOther(ctx, "dr-1", "2026-03-02", start, end, "session-b"))
	assert.False(t, holder.HeldByOther(ctx, "dr-1", "2026-03-02", start, end, "session-a"))

	// A different slot for the same practitioner is unaffected.
	assert.False(t, holder.HeldByOther(ctx, "dr-1", "2026-03-02", ClockMinutes(600), ClockMinutes(660), "session-b"))
}

func TestSlotHolder_Release(t *testing.T) {
	holder := NewSlotHolder(setupTestRedis(t), time.Minute, nil)
	ctx := context.Background()
	start, end := ClockMinutes(540), ClockMinutes(600)

	_, err := holder.Acquire(ctx, "dr-1", "2026-03-02", start, end, "session-a")
	require.NoError(t, err)

	holder.Release(ctx, "dr-1", "2026-03-02", start, end)

	_, err = holder.Acquire(ctx, "dr-1", "2026-03-02", start, end, "session-b")
	assert.NoError(t, err, "released slot must be acquirable by another session")
}

func TestSlotHolder_FailsOpenWithoutRedis(t *testing.T) {
	holder := NewSlotHolder(nil, time.Minute, nil)
	ctx := context.Background()

	hold, err := holder.Acquire(ctx, "dr-1", "2026-03-02", 540, 600, "session-a")
	assert.NoError(t, err)
	assert.Nil(t, hold)
	assert.False(t, holder.HeldByOther(ctx, "dr-1", "2026-03-02", 540, 600, "session-b"))
}

func TestService_Book_RespectsForeignHold(t *testing.T) {
	holder := NewSlotHolder(setupTestRedis(t), time.Minute, nil)
	svc := NewService(NewInMemoryRepository(), holder, nil, nil)
	ctx := context.Background()

	_, err := holder.Acquire(ctx, "dr-1", "2026-03-02", 540, 600, "session-a")
	require.NoError(t, err)

	// Another session cannot book through the hold.
	_, err = svc.Book(ctx, bookingRequest("09:00", "10:00"), "session-b")
	assert.ErrorIs(t, err, ErrSlotHeld)

	// The holding session books, which releases the hold.
	_, err = svc.Book(ctx, bookingRequest("09:00", "10:00"), "session-a")
	require.NoError(t, err)
	assert.False(t, holder.HeldByOther(ctx, "dr-1", "2026-03-02", 540, 600, "session-b"))
}
