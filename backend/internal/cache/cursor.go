package cache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"mylist-service/backend/internal/repo"
)

// 游标 = base64url(JSON{createdAt(UnixMilli), id})
// 对外是不透明 token，只有这里能编解码；毫秒精度和 datetime(3) 对齐，往返无损
type cursorPayload struct {
	CreatedAt int64  `json:"createdAt"`
	ID        uint64 `json:"id"`
}

func EncodeCursor(createdAt time.Time, id uint64) string {
	b, _ := json.Marshal(cursorPayload{CreatedAt: createdAt.UnixMilli(), ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor 解码失败一律返回 ErrInvalidCursor，调用方必须拒绝请求
// 不做"解不开就当第一页"的兜底，篡改过的 token 不能静默通过
func DecodeCursor(token string) (time.Time, uint64, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %v", repo.ErrInvalidCursor, err)
	}
	var p cursorPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %v", repo.ErrInvalidCursor, err)
	}
	if p.ID == 0 {
		return time.Time{}, 0, fmt.Errorf("%w: missing identity", repo.ErrInvalidCursor)
	}
	return time.UnixMilli(p.CreatedAt).UTC(), p.ID, nil
}
