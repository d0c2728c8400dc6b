package entity

// Page 是一页列表的响应视图，也是页缓存里序列化存储的值
// Limit 记录这一页是按多大的 limit 构建的，乐观补页时要靠它判断页满没满
type Page struct {
	Items      []ListItem `json:"items"`
	NextCursor *string    `json:"nextCursor"`
	HasMore    bool       `json:"hasMore"`
	Limit      int        `json:"limit"`
}
