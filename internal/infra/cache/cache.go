// Package cache redis-кэш списков записей с тег-инвалидацией.
//
// Каждый закэшированный результат выборки хранится под детерминированным
// ключом фильтра и индексируется во множества по каждому своему тегу
// (all, appointment:<id>, branch:<id>, client:<id>, assignee:<id>).
// Мутация инвалидирует теги, вычисленные domain.AffectedTags, что удаляет
// все списки, которые могли содержать затронутую запись.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	"github.com/m04kA/LGS-AppointmentService/pkg/metrics"
)

const (
	listKeyPrefix = "appointments:list:"
	tagKeyPrefix  = "appointments:tag:"

	// Тег-множества живут дольше самих списков: просроченное множество
	// при живом списке означало бы незаметную потерю инвалидации
	tagTTLSlack = time.Minute
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Store кэш списков поверх Redis
type Store struct {
	rdb     *redis.Client
	ttl     time.Duration
	log     Logger
	metrics *metrics.Metrics // nil, если метрики выключены
}

// NewStore создает кэш списков с указанным TTL
func NewStore(rdb *redis.Client, ttl time.Duration, log Logger, m *metrics.Metrics) *Store {
	return &Store{
		rdb:     rdb,
		ttl:     ttl,
		log:     log,
		metrics: m,
	}
}

// GetList возвращает закэшированный результат выборки.
// Любая ошибка Redis трактуется как промах - кэш никогда не роняет чтение.
func (s *Store) GetList(ctx context.Context, key string) ([]byte, bool) {
	payload, err := s.rdb.Get(ctx, listKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache: get failed for key=%s: %v", key, err)
		}
		s.observeMiss()
		return nil, false
	}

	s.observeHit()
	return payload, true
}

// SetList кэширует результат выборки и индексирует его по тегам.
// Ошибка записи в кэш не критична: следующее чтение просто уйдёт в БД.
func (s *Store) SetList(ctx context.Context, key string, payload []byte, tags []domain.Tag) {
	listKey := listKeyPrefix + key

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, listKey, payload, s.ttl)
	for _, tag := range tags {
		tagKey := tagKeyPrefix + tag.Key()
		pipe.SAdd(ctx, tagKey, listKey)
		pipe.Expire(ctx, tagKey, s.ttl+tagTTLSlack)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("cache: set failed for key=%s: %v", key, err)
	}
}

// Invalidate удаляет все списки, проиндексированные под указанными тегами.
// При любой ошибке Redis деградирует до полного сброса кэша списков:
// потеря кэша дешевле незаметно устаревших данных. Ошибки инвалидации
// не фатальны для мутации.
func (s *Store) Invalidate(ctx context.Context, tags ...domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	tagKeys := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagKeys = append(tagKeys, tagKeyPrefix+tag.Key())
	}

	listKeys, err := s.rdb.SUnion(ctx, tagKeys...).Result()
	if err != nil {
		s.log.Error("cache: tag lookup failed, flushing entire list cache: %v", err)
		return s.flushAll(ctx)
	}

	toDelete := append(listKeys, tagKeys...)
	if err := s.rdb.Del(ctx, toDelete...).Err(); err != nil {
		s.log.Error("cache: delete failed, flushing entire list cache: %v", err)
		return s.flushAll(ctx)
	}

	s.observeInvalidation()
	return nil
}

// flushAll удаляет все ключи кэша списков (деградированная инвалидация)
func (s *Store) flushAll(ctx context.Context) error {
	if s.metrics != nil {
		s.metrics.CacheFlushesTotal.WithLabelValues("appointments").Inc()
	}

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	// Тег-индексы тоже сбрасываем: они ссылаются на удалённые списки
	cursor = 0
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, tagKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (s *Store) observeHit() {
	if s.metrics != nil {
		s.metrics.CacheHitsTotal.WithLabelValues("appointments").Inc()
	}
}

func (s *Store) observeMiss() {
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.WithLabelValues("appointments").Inc()
	}
}

func (s *Store) observeInvalidation() {
	if s.metrics != nil {
		s.metrics.CacheInvalidationsTotal.WithLabelValues("appointments").Inc()
	}
}
