package repo

import (
	"context"
	"time"

	"mylist-service/backend/internal/entity"
)

// MyListRepo 定义了"我的列表"的业务契约
// 读走缓存（版本化页缓存 + 重建锁），写走协调器（落库 + bump 版本 + 乐观补页）
type MyListRepo interface {
	GetPage(ctx context.Context, userID string, cursor string, limit int) (*entity.Page, error)
	Add(ctx context.Context, userID, contentID, contentType string) (*entity.ListItem, error)
	Remove(ctx context.Context, userID, contentID string) error
}

// ListPosition 是翻页的锚点：上一页最后一条的 (创建时间, 自增 ID)
// 游标 token 解码后得到它，查询按同一排序（created_at desc, id desc）严格取其后
type ListPosition struct {
	CreatedAt time.Time
	ID        uint64
}

// ListStore 持久层契约：唯一性约束和排序都由这里保证，缓存永远可以从它重建
type ListStore interface {
	// InsertIfAbsent 插入一条记录；(userID, contentID) 已存在时返回已有记录，inserted=false
	InsertIfAbsent(ctx context.Context, item *entity.ListItem) (existing *entity.ListItem, inserted bool, err error)
	// DeleteIfExists 删除一条记录，返回是否真的删掉了（不存在时 false, nil）
	DeleteIfExists(ctx context.Context, userID, contentID string) (bool, error)
	// QueryPage 按 (created_at desc, id desc) 取一页，after 非空时严格取锚点之后
	// 调用方自己决定 limit（多取一条判断 hasMore 是调用方的事）
	QueryPage(ctx context.Context, userID string, after *ListPosition, limit int) ([]entity.ListItem, error)
	// ContentExists 校验内容目录里是否存在该 (contentID, contentType)
	ContentExists(ctx context.Context, contentID, contentType string) (bool, error)
}

// ContentStore 演示用的内容目录写入口
type ContentStore interface {
	CreateContent(ctx context.Context, c *entity.Content) (*entity.Content, error)
}
