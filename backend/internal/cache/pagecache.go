package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mylist-service/backend/internal/entity"
)

// 页缓存存整页 JSON；键里带版本号，所以读到的页一定属于调用方刚读到的那个版本
// 这里从不校验"新不新"——版本选键已经保证旧页不可达

func (r *redisMyList) readPage(ctx context.Context, key string) (*entity.Page, bool, error) {
	res, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached page: %w", err)
	}
	var page entity.Page
	if err := json.Unmarshal(res, &page); err != nil {
		// 反序列化失败按 miss 处理，走重建覆盖掉坏数据
		return nil, false, nil
	}
	return &page, true, nil
}

func (r *redisMyList) writePage(ctx context.Context, key string, page *entity.Page) error {
	b, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}
	if err := r.rdb.Set(ctx, key, b, r.getRandomTTL()).Err(); err != nil {
		return fmt.Errorf("write cached page: %w", err)
	}
	return nil
}
