package mysqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mylist-service/backend/internal/entity"
	"mylist-service/backend/internal/repo"
)

type mysqlListStore struct {
	db *gorm.DB
}

// 确保 mysqlListStore 实现了 repo.ListStore 和 repo.ContentStore 接口
var _ repo.ListStore = (*mysqlListStore)(nil)
var _ repo.ContentStore = (*mysqlListStore)(nil)

func NewMySQLListStore(db *gorm.DB) *mysqlListStore {
	return &mysqlListStore{db: db}
}

// InsertIfAbsent 依赖 (user_id, content_id) 唯一索引做幂等插入
// OnConflict DoNothing：撞唯一键时不报错也不写入，RowsAffected 为 0
// 冲突时回查已有记录返回，重复 add 拿到的是第一次的那条
func (s *mysqlListStore) InsertIfAbsent(ctx context.Context, item *entity.ListItem) (*entity.ListItem, bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if res.Error != nil {
		return nil, false, fmt.Errorf("insert list item: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return item, true, nil
	}
	var existing entity.ListItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", item.UserID, item.ContentID).
		First(&existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("refetch existing list item: %w", err)
	}
	return &existing, false, nil
}

func (s *mysqlListStore) DeleteIfExists(ctx context.Context, userID, contentID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&entity.ListItem{})
	if res.Error != nil {
		return false, fmt.Errorf("delete list item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// QueryPage 键集翻页（不用 OFFSET，深翻页不退化）
// 排序固定 (created_at desc, id desc)，时间戳相同时按 id 兜底，保证全序
func (s *mysqlListStore) QueryPage(ctx context.Context, userID string, after *repo.ListPosition, limit int) ([]entity.ListItem, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if after != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID)
	}
	var items []entity.ListItem
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("query list page: %w", err)
	}
	return items, nil
}

func (s *mysqlListStore) ContentExists(ctx context.Context, contentID, contentType string) (bool, error) {
	var c entity.Content
	err := s.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ?", contentID, contentType).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil // 没找到不是错误
		}
		return false, fmt.Errorf("lookup content: %w", err)
	}
	return true, nil
}

func (s *mysqlListStore) CreateContent(ctx context.Context, c *entity.Content) (*entity.Content, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return nil, fmt.Errorf("create content: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var existing entity.Content
		if err := s.db.WithContext(ctx).Where("content_id = ?", c.ContentID).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("refetch existing content: %w", err)
		}
		return &existing, nil
	}
	return c, nil
}
