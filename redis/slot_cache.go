package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mentorhive/mentor-scheduler/models"
)

const slotListingTTL = 5 * time.Minute

// SlotCache caches availability listings per mentor. Every cached key embeds
// the mentor's version counter; bumping the counter on any slot or capacity
// change orphans stale entries instead of scanning for them, and the TTL
// collects the leftovers.
type SlotCache struct{}

func versionKey(mentorID uint) string {
	return fmt.Sprintf("slots:version:%d", mentorID)
}

func (SlotCache) listingKey(mentorID uint, version int64, from, to string, serviceTypeID uint) string {
	return fmt.Sprintf("slots:listing:%d:%d:%s:%s:%d", mentorID, version, from, to, serviceTypeID)
}

func (c SlotCache) version(ctx context.Context, mentorID uint) int64 {
	v, err := Client.Get(ctx, versionKey(mentorID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

// Get returns a cached listing, or ok=false on miss or when redis is down.
func (c SlotCache) Get(ctx context.Context, mentorID uint, from, to string, serviceTypeID uint) ([]models.SlotOccurrence, bool) {
	if Client == nil {
		return nil, false
	}
	key := c.listingKey(mentorID, c.version(ctx, mentorID), from, to, serviceTypeID)
	data, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var out []models.SlotOccurrence
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores a listing under the mentor's current version. Best effort.
func (c SlotCache) Set(ctx context.Context, mentorID uint, from, to string, serviceTypeID uint, occurrences []models.SlotOccurrence) {
	if Client == nil {
		return
	}
	data, err := json.Marshal(occurrences)
	if err != nil {
		return
	}
	key := c.listingKey(mentorID, c.version(ctx, mentorID), from, to, serviceTypeID)
	Client.Set(ctx, key, data, slotListingTTL)
}

// Invalidate bumps the mentor's version so every cached listing goes stale.
func (c SlotCache) Invalidate(ctx context.Context, mentorID uint) {
	if Client == nil {
		return
	}
	Client.Incr(ctx, versionKey(mentorID))
}
