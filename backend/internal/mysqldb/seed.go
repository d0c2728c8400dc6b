package mysqldb

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mylist-service/backend/internal/entity"
)

// 演示用的内容目录种子数据，启动时灌一次
// OnConflict DoNothing：重启不会重复插入
var seedContents = []entity.Content{
	{ContentID: "m1", Title: "Interstellar", ContentType: "movie"},
	{ContentID: "m2", Title: "Inception", ContentType: "movie"},
	{ContentID: "m3", Title: "The Dark Knight", ContentType: "movie"},
	{ContentID: "t1", Title: "Breaking Bad", ContentType: "tv"},
	{ContentID: "t2", Title: "The Wire", ContentType: "tv"},
	{ContentID: "s1", Title: "Champions League Final", ContentType: "sports"},
	{ContentID: "s2", Title: "Super Bowl LIX", ContentType: "sports"},
}

func SeedContent(ctx context.Context, db *gorm.DB) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	contents := make([]entity.Content, len(seedContents))
	copy(contents, seedContents)
	for i := range contents {
		contents[i].CreatedAt = now
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&contents).Error
}
