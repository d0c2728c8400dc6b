package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"mylist-service/backend/internal/entity"
	"mylist-service/backend/internal/events"
	"mylist-service/backend/internal/repo"
)

// redisMyList 把版本化页缓存、重建锁和持久层组合成 MyListRepo：
// 读：singleflight（进程内合并）→ 版本选键查缓存 → miss 抢锁重建 → 回填
// 写：落库 → bump 版本（O(1) 失效全部页）→ add 额外走第一页乐观补页
type redisMyList struct {
	rdb    *redis.Client
	sf     singleflight.Group
	store  repo.ListStore
	events *events.Dispatcher // 可为 nil，nil 时不发事件
	opt    Options
}

// 确保 redisMyList 实现了 repo.MyListRepo 接口
var _ repo.MyListRepo = (*redisMyList)(nil)

// add 只允许这些内容类型
var supportedContentTypes = map[string]bool{
	"movie":  true,
	"tv":     true,
	"sports": true,
}

func NewRedisMyList(rdb *redis.Client, store repo.ListStore, dispatcher *events.Dispatcher, opt Options) repo.MyListRepo {
	return &redisMyList{
		rdb:    rdb,
		store:  store,
		events: dispatcher,
		opt:    opt.withDefaults(),
	}
}

// 将 any 类型转换为 int64 类型，无法转换返回错误
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type: %T", v)
	}
}

// GetPage 读一页列表
// limit <= 0 是参数错误；超过上限钳制到上限；cursor 解不开直接拒绝
func (r *redisMyList) GetPage(ctx context.Context, userID string, cursor string, limit int) (*entity.Page, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", repo.ErrInvalidLimit)
	}
	if limit > r.opt.MaxLimit {
		limit = r.opt.MaxLimit
	}

	var after *repo.ListPosition
	if cursor != "" {
		createdAt, id, err := DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		after = &repo.ListPosition{CreatedAt: createdAt, ID: id}
	}
	sig := pageSignature(cursor, limit)

	// 进程内先用 Singleflight 合并相同请求，跨进程的并发靠下面的重建锁
	val, err, _ := r.sf.Do(userID+"|"+sig, func() (interface{}, error) {
		return r.getPageProtected(ctx, userID, sig, after, limit)
	})
	if err != nil {
		return nil, err
	}
	// 使用断言确保不会panic
	if page, ok := val.(*entity.Page); ok {
		return page, nil
	}
	return nil, errors.New("internal type error")
}

// 组合策略（版本选键 + 重建锁 + 有限轮询 + 回源兜底）
// 缓存/锁后端任何一步出错都降级为直查数据库：宁可慢，不可错、不可挂
func (r *redisMyList) getPageProtected(ctx context.Context, userID, sig string, after *repo.ListPosition, limit int) (*entity.Page, error) {
	version, err := r.currentVersion(ctx, userID)
	if err != nil {
		log.Printf("mylist: version read failed, degrade to store: %v", err)
		return r.buildPage(ctx, userID, after, limit)
	}
	key := pageKey(userID, sig, version)

	page, hit, err := r.readPage(ctx, key)
	if err != nil {
		log.Printf("mylist: cache read failed, degrade to store: %v", err)
		return r.buildPage(ctx, userID, after, limit)
	}
	if hit {
		return page, nil
	}

	// 冷缓存：抢重建锁，抢到的那一个回源，其余等它写回的结果
	token, acquired, err := r.tryLock(ctx, userID, sig)
	if err != nil {
		log.Printf("mylist: lock backend failed, degrade to store: %v", err)
		return r.buildPage(ctx, userID, after, limit)
	}
	if !acquired {
		// busy 不是错误：有限轮询等在建的结果，等不到就直接回源，绝不无限等
		for i := 0; i < lockPollMax; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(lockPollInterval):
			}
			if page, hit, err := r.readPage(ctx, key); err == nil && hit {
				return page, nil
			}
		}
		return r.buildPage(ctx, userID, after, limit)
	}
	defer func() {
		if err := r.unlock(ctx, userID, sig, token); err != nil {
			log.Printf("mylist: unlock failed (lock will self-expire): %v", err)
		}
	}()

	// 拿到锁后再查一次：可能上一个持有者刚写完
	if page, hit, err := r.readPage(ctx, key); err == nil && hit {
		return page, nil
	}

	page, err = r.buildPage(ctx, userID, after, limit)
	if err != nil {
		return nil, err // 构建失败不写缓存，下次重试
	}
	if err := r.writePage(ctx, key, page); err != nil {
		log.Printf("mylist: cache backfill failed: %v", err)
	}
	return page, nil
}

// buildPage 回源构建一页：多取一条判断还有没有下一页，省一次存在性查询
func (r *redisMyList) buildPage(ctx context.Context, userID string, after *repo.ListPosition, limit int) (*entity.Page, error) {
	rows, err := r.store.QueryPage(ctx, userID, after, limit+1)
	if err != nil {
		return nil, err
	}
	page := &entity.Page{Items: rows, Limit: limit}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true
		last := page.Items[limit-1]
		token := EncodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &token
	}
	if page.Items == nil {
		page.Items = []entity.ListItem{} // 未知用户返回空页，不返回 null
	}
	return page, nil
}

// Add 加入列表
// 1. 校验内容类型和内容目录里的引用
// 2. 唯一索引幂等插入；重复 add 返回已有记录，不报错
// 3. bump 版本（重复 add 也 bump，add 路径统一"成功即失效"）
// 4. 真插入了才走乐观补页和事件：已有条目的位置没变，补页会把它写重
func (r *redisMyList) Add(ctx context.Context, userID, contentID, contentType string) (*entity.ListItem, error) {
	if !supportedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported contentType %q", repo.ErrInvalidContent, contentType)
	}
	exists, err := r.store.ContentExists(ctx, contentID, contentType)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: content %q not found", repo.ErrInvalidContent, contentID)
	}

	item, inserted, err := r.store.InsertIfAbsent(ctx, &entity.ListItem{
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		return nil, err
	}

	newVersion, err := r.bumpVersion(ctx, userID)
	if err != nil {
		// 缓存不可用时读路径同样会降级直查数据库，所以这里只记日志不报错
		log.Printf("mylist: version bump failed after add: %v", err)
		return item, nil
	}
	if inserted {
		r.patchFirstPage(ctx, userID, newVersion, item)
		r.emit(ctx, events.EventItemAdded, item.ContentID, item.ContentType, userID, newVersion)
	}
	return item, nil
}

// Remove 移出列表
// 删除不存在的条目是幂等成功，可见状态没变，版本也不 bump
// remove 没有乐观快路径：删除会同时影响相邻两页的边界，原地补页不安全，
// 只靠 bump 版本整体失效，下次读走慢路径重建
func (r *redisMyList) Remove(ctx context.Context, userID, contentID string) error {
	deleted, err := r.store.DeleteIfExists(ctx, userID, contentID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}
	newVersion, err := r.bumpVersion(ctx, userID)
	if err != nil {
		log.Printf("mylist: version bump failed after remove: %v", err)
		return nil
	}
	r.emit(ctx, events.EventItemRemoved, contentID, "", userID, newVersion)
	return nil
}

// patchFirstPage 乐观快路径：add 只影响列表头部，所以第一页可以原地补
// 旧版本下默认 limit 的第一页还在缓存里，就把新条目置顶写到新版本键下，
// 下一次读第一页不用回源；旧页拿不到就算了，走慢路径重建
func (r *redisMyList) patchFirstPage(ctx context.Context, userID string, newVersion int64, item *entity.ListItem) {
	sig := pageSignature("", r.opt.DefaultLimit)
	oldKey := pageKey(userID, sig, newVersion-1)
	page, hit, err := r.readPage(ctx, oldKey)
	if err != nil || !hit {
		return
	}

	wasFull := len(page.Items) >= page.Limit
	items := make([]entity.ListItem, 0, len(page.Items)+1)
	items = append(items, *item)
	items = append(items, page.Items...)
	if len(items) > page.Limit {
		items = items[:page.Limit] // 页满了就挤掉最后一条
	}
	page.Items = items
	if wasFull {
		// 被挤掉的那条落到了下一页，游标要指向现在的最后一条
		last := items[len(items)-1]
		token := EncodeCursor(last.CreatedAt, last.ID)
		page.HasMore = true
		page.NextCursor = &token
	}

	if err := r.writePage(ctx, pageKey(userID, sig, newVersion), page); err != nil {
		log.Printf("mylist: optimistic first-page patch failed: %v", err)
	}
}

func (r *redisMyList) emit(ctx context.Context, eventType, contentID, contentType, userID string, version int64) {
	if r.events == nil {
		return
	}
	evt := events.ListEvent{
		EventType:   eventType,
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		Version:     version,
		OccurredAt:  time.Now().UTC(),
	}
	if err := r.events.Enqueue(ctx, evt); err != nil {
		log.Printf("mylist: drop %s event for user=%s: %v", eventType, userID, err)
	}
}
