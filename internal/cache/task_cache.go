package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"taskdeck/internal/model"
)

// TaskCache keeps a user's complete task list in redis. Any write to the
// user's tasks deletes the entry; the next list read repopulates it.
type TaskCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewTaskCache(client *redisv9.Client, ttl time.Duration) *TaskCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &TaskCache{client: client, ttl: ttl}
}

func (c *TaskCache) GetList(ctx context.Context, userID uint) ([]model.Task, bool, error) {
	raw, err := c.client.Get(ctx, c.listKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get task list failed: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached task list failed: %w", err)
	}
	return tasks, true, nil
}

func (c *TaskCache) SetList(ctx context.Context, userID uint, tasks []model.Task) error {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal task list failed: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set task list failed: %w", err)
	}
	return nil
}

func (c *TaskCache) DeleteList(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.listKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete task list failed: %w", err)
	}
	return nil
}

func (c *TaskCache) listKey(userID uint) string {
	return fmt.Sprintf("tasks:user:%d", userID)
}
