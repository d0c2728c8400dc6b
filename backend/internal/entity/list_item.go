package entity

import "time"

// ListItem 是"我的列表"里的一条记录，(UserID, ContentID) 唯一
// ID 自增，创建时间相同时用它做排序 tie-break（游标里也会带上它）
// CreatedAt 统一截断到毫秒，和 datetime(3) 以及游标里的 UnixMilli 保持同一精度
type ListItem struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:varchar(64);uniqueIndex:uniq_user_content,priority:1;index:idx_user_created,priority:1" json:"userId"`
	ContentID   string    `gorm:"type:varchar(64);uniqueIndex:uniq_user_content,priority:2" json:"contentId"`
	ContentType string    `gorm:"type:varchar(16)" json:"contentType"`
	CreatedAt   time.Time `gorm:"type:datetime(3);index:idx_user_created,priority:2" json:"createdAt"`
}

// Content 内容目录表：add 之前要校验引用的内容确实存在
type Content struct {
	ContentID   string    `gorm:"primaryKey;type:varchar(64)" json:"contentId"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	ContentType string    `gorm:"type:varchar(16)" json:"contentType"`
	CreatedAt   time.Time `gorm:"type:datetime(3)" json:"createdAt"`
}
