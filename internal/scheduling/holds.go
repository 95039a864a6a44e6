package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// SlotHolder places short-lived soft holds on time slots while the front
// desk finishes a booking form. Holds are advisory: they expire on their own
// and are released when the booking commits. Redis being unavailable never
// blocks booking (fail open).
type SlotHolder struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// Hold describes an active soft hold on a slot.
type Hold struct {
	Key       string    `json:"key"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSlotHolder creates a slot holder. A nil client disables holds entirely.
func NewSlotHolder(client *redis.Client, ttl time.Duration, logger *logging.Logger) *SlotHolder {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SlotHolder{redis: client, ttl: ttl, logger: logger}
}

func holdKey(practitionerID, date string, start, end ClockMinutes) string {
	return fmt.Sprintf("hold:slot:%s:%s:%s-%s", practitionerID, date, start, end)
}

// Acquire places a hold for the session. A slot already held by a different
// session returns ErrSlotHeld; re-acquiring from the same session refreshes
// the TTL.
func (h *SlotHolder) Acquire(ctx context.Context, practitionerID, date string, start, end ClockMinutes, sessionID string) (*Hold, error) {
	if h.redis == nil {
		return nil, nil
	}
	key := holdKey(practitionerID, date, start, end)

	ok, err := h.redis.SetNX(ctx, key, sessionID, h.ttl).Result()
	if err != nil {
		h.logger.Error("slot hold unavailable", "error", err, "key", key)
		return nil, nil
	}
	if !ok {
		owner, err := h.redis.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			h.logger.Error("slot hold owner lookup failed", "error", err, "key", key)
			return nil, nil
		}
		if owner != sessionID {
			return nil, ErrSlotHeld
		}
		if err := h.redis.Expire(ctx, key, h.ttl).Err(); err != nil {
			h.logger.Error("slot hold refresh failed", "error", err, "key", key)
		}
	}

	return &Hold{
		Key:       key,
		SessionID: sessionID,
		ExpiresAt: time.Now().Add(h.ttl).UTC(),
	}, nil
}

// HeldByOther reports whether a different session currently holds the slot.
func (h *SlotHolder) HeldByOther(ctx context.Context, practitionerID, date string, start, end ClockMinutes, sessionID string) bool {
	if h.redis == nil {
		return false
	}
	key := holdKey(practitionerID, date, start, end)
	owner, err := h.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		h.logger.Error("slot hold lookup failed", "error", err, "key", key)
		return false
	}
	return owner != sessionID
}

// Release drops the hold once the booking commits or the form is abandoned.
func (h *SlotHolder) Release(ctx context.Context, practitionerID, date string, start, end ClockMinutes) {
	if h.redis == nil {
		return
	}
	key := holdKey(practitionerID, date, start, end)
	if err := h.redis.Del(ctx, key).Err(); err != nil {
		h.logger.Error("slot hold release failed", "error", err, "key", key)
	}
}
