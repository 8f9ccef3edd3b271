package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/atlasops/atlas/pkg/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces availability entries in a shared Redis instance.
const keyPrefix = "atlas:availability"

// CachedAvailabilityRepository decorates an availability repository with a
// Redis read-through cache. Weekly records change rarely but are read on
// every slot computation, so both hits and declared absences are cached.
// Redis being down degrades to the inner store, never to an error.
type CachedAvailabilityRepository struct {
	inner   domain.AvailabilityRepository
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewCachedAvailabilityRepository creates a caching decorator.
func NewCachedAvailabilityRepository(
	inner domain.AvailabilityRepository,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
	metrics observability.Metrics,
) *CachedAvailabilityRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CachedAvailabilityRepository{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

type cachedRecord struct {
	Absent             bool      `json:"absent,omitempty"`
	ID                 uuid.UUID `json:"id,omitempty"`
	UserID             uuid.UUID `json:"user_id,omitempty"`
	Weekday            int       `json:"weekday,omitempty"`
	WindowStartMinutes int       `json:"window_start_minutes,omitempty"`
	WindowEndMinutes   int       `json:"window_end_minutes,omitempty"`
	Available          bool      `json:"available,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

func cacheKey(user sharedDomain.SubjectID, weekday time.Weekday) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, user, int(weekday))
}

// FindByUserAndWeekday serves from Redis when possible, falling through to
// the inner store on miss or Redis failure.
func (r *CachedAvailabilityRepository) FindByUserAndWeekday(ctx context.Context, user sharedDomain.SubjectID, weekday time.Weekday) (*domain.WeeklyAvailability, error) {
	key := cacheKey(user, weekday)

	raw, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedRecord
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			r.metrics.Counter("availability_cache.hit", 1)
			if cached.Absent {
				return nil, nil
			}
			return cachedToRecord(cached), nil
		}
		r.logger.Warn("dropping corrupt availability cache entry", "key", key)
		_ = r.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Debug("availability cache read failed", "key", key, "error", err)
	}

	r.metrics.Counter("availability_cache.miss", 1)
	record, err := r.inner.FindByUserAndWeekday(ctx, user, weekday)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, record)
	return record, nil
}

// FindByUser reads through to the inner store; the per-user listing is an
// administrative read, not on the slot computation path.
func (r *CachedAvailabilityRepository) FindByUser(ctx context.Context, user sharedDomain.SubjectID) ([]*domain.WeeklyAvailability, error) {
	return r.inner.FindByUser(ctx, user)
}

// Save writes through and invalidates the pair's cache entry.
func (r *CachedAvailabilityRepository) Save(ctx context.Context, record *domain.WeeklyAvailability) error {
	if err := r.inner.Save(ctx, record); err != nil {
		return err
	}

	key := cacheKey(record.UserID(), record.Weekday())
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("availability cache invalidation failed", "key", key, "error", err)
	}
	return nil
}

func (r *CachedAvailabilityRepository) store(ctx context.Context, key string, record *domain.WeeklyAvailability) {
	var cached cachedRecord
	if record == nil {
		cached.Absent = true
	} else {
		cached = cachedRecord{
			ID:                 record.ID(),
			UserID:             record.UserID().UUID(),
			Weekday:            int(record.Weekday()),
			WindowStartMinutes: int(record.WindowStart() / time.Minute),
			WindowEndMinutes:   int(record.WindowEnd() / time.Minute),
			Available:          record.IsAvailable(),
			CreatedAt:          record.CreatedAt(),
			UpdatedAt:          record.UpdatedAt(),
		}
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Debug("availability cache write failed", "key", key, "error", err)
	}
}

func cachedToRecord(cached cachedRecord) *domain.WeeklyAvailability {
	return domain.RehydrateWeeklyAvailability(
		cached.ID,
		sharedDomain.NewSubjectID(cached.UserID),
		time.Weekday(cached.Weekday),
		time.Duration(cached.WindowStartMinutes)*time.Minute,
		time.Duration(cached.WindowEndMinutes)*time.Minute,
		cached.Available,
		cached.CreatedAt,
		cached.UpdatedAt,
	)
}
