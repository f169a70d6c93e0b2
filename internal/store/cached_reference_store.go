package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"filmorate/internal/domain"

	"github.com/redis/go-redis/v9"
)

// CachedReferenceStore кэширует справочники в Redis (cache-aside).
// Справочники меняются только миграциями, поэтому запись в кэш не инвалидируется, только истекает по TTL.
// Ошибки Redis не прерывают запрос: данные читаются из next.
type CachedReferenceStore struct {
	next   ReferenceStore
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedReferenceStore оборачивает next кэшем. Если rdb == nil, возвращает next без изменений.
func NewCachedReferenceStore(next ReferenceStore, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) ReferenceStore {
	if rdb == nil {
		return next
	}
	return &CachedReferenceStore{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (s *CachedReferenceStore) Genres(ctx context.Context) ([]domain.Genre, error) {
	var genres []domain.Genre
	if s.get(ctx, "reference:genres", &genres) {
		return genres, nil
	}
	genres, err := s.next.Genres(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, "reference:genres", genres)
	return genres, nil
}

func (s *CachedReferenceStore) Genre(ctx context.Context, id int64) (*domain.Genre, error) {
	key := fmt.Sprintf("reference:genre:%d", id)
	var genre domain.Genre
	if s.get(ctx, key, &genre) {
		return &genre, nil
	}
	found, err := s.next.Genre(ctx, id)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, found)
	return found, nil
}

func (s *CachedReferenceStore) MpaRatings(ctx context.Context) ([]domain.Mpa, error) {
	var ratings []domain.Mpa
	if s.get(ctx, "reference:mpa", &ratings) {
		return ratings, nil
	}
	ratings, err := s.next.MpaRatings(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, "reference:mpa", ratings)
	return ratings, nil
}

func (s *CachedReferenceStore) Mpa(ctx context.Context, id int64) (*domain.Mpa, error) {
	key := fmt.Sprintf("reference:mpa:%d", id)
	var mpa domain.Mpa
	if s.get(ctx, key, &mpa) {
		return &mpa, nil
	}
	found, err := s.next.Mpa(ctx, id)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, found)
	return found, nil
}

func (s *CachedReferenceStore) get(ctx context.Context, key string, dst interface{}) bool {
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "Reference cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		s.logger.WarnContext(ctx, "Reference cache entry is corrupted", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	s.logger.DebugContext(ctx, "Reference cache hit", slog.String("key", key))
	return true
}

func (s *CachedReferenceStore) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "Reference cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
