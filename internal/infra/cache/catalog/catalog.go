// Package catalog кэширует бизнесы и услуги в Redis поверх репозитория.
// Ошибки Redis не ломают чтение: запрос уходит в репозиторий.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const keyPrefix = "appointments:catalog:"

func businessKey(id int64) string {
	return fmt.Sprintf("%sbusiness:%d", keyPrefix, id)
}

func serviceKey(id int64) string {
	return fmt.Sprintf("%sservice:%d", keyPrefix, id)
}

// Catalog read-through кэш каталога
type Catalog struct {
	client *redis.Client
	repo   Repository
	ttl    time.Duration
	log    Logger
}

// New создает кэш каталога
func New(client *redis.Client, repo Repository, ttl time.Duration, log Logger) *Catalog {
	return &Catalog{
		client: client,
		repo:   repo,
		ttl:    ttl,
		log:    log,
	}
}

// GetByID возвращает бизнес с расписанием
func (c *Catalog) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	var b domain.Business
	if c.load(ctx, businessKey(id), &b) {
		return &b, nil
	}

	fresh, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, businessKey(id), fresh)
	return fresh, nil
}

// GetService возвращает услугу
func (c *Catalog) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if c.load(ctx, serviceKey(id), &s) {
		return &s, nil
	}

	fresh, err := c.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, serviceKey(id), fresh)
	return fresh, nil
}

// InvalidateBusiness удаляет бизнес из кэша после изменения расписания
func (c *Catalog) InvalidateBusiness(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, businessKey(id)).Err(); err != nil {
		return fmt.Errorf("catalog: invalidate business id=%d: %w", id, err)
	}
	return nil
}

func (c *Catalog) load(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("Catalog: redis get %s failed: %v", key, err)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("Catalog: corrupted entry %s: %v", key, err)
		return false
	}
	return true
}

func (c *Catalog) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Catalog: encode %s failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Catalog: redis set %s failed: %v", key, err)
	}
}
