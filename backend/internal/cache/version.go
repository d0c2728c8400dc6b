package cache

import (
	"context"
	"fmt"
)

// 版本号语义：页缓存键带 v{version} 后缀，bump 一次等于 O(1) 失效该用户全部页
// 旧版本的键变成不可达的死键，靠 TTL 回收，不做逐键删除

// 首次访问的懒初始化必须原子：SET NX 再读，两个并发的首次 get 不会各拿各的
const versionInitScript = `
local v = redis.call("GET", KEYS[1])
if not v then
	redis.call("SET", KEYS[1], 1, "PX", ARGV[1])
	return 1
end
return tonumber(v)
`

// bump 用 INCR，原子自增不会丢更新；键不存在时 INCR 从 0 开始，
// 语义上等价于"初始版本 1 之后的第一次变更"，顺带续 TTL
const versionBumpScript = `
local v = redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return v
`

func (r *redisMyList) currentVersion(ctx context.Context, userID string) (int64, error) {
	res, err := r.rdb.Eval(ctx, versionInitScript, []string{versionKey(userID)}, VersionTTL.Milliseconds()).Result()
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	v, err := toInt64(res)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func (r *redisMyList) bumpVersion(ctx context.Context, userID string) (int64, error) {
	res, err := r.rdb.Eval(ctx, versionBumpScript, []string{versionKey(userID)}, VersionTTL.Milliseconds()).Result()
	if err != nil {
		return 0, fmt.Errorf("bump version: %w", err)
	}
	v, err := toInt64(res)
	if err != nil {
		return 0, fmt.Errorf("bump version: %w", err)
	}
	return v, nil
}
