package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// 重建锁：SET NX PX 一步拿锁，绝不能先查再设
// value 是持有者 token，释放时要比对 token 再删——
// 慢重建者的锁被 TTL 回收、别人又拿到了同一把锁时，不能把别人的锁误删掉
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// tryLock 非阻塞抢锁，抢不到返回 ok=false（这不是错误，是"别人正在重建"的信号）
func (r *redisMyList) tryLock(ctx context.Context, userID, sig string) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = r.rdb.SetNX(ctx, lockKey(userID, sig), token, r.opt.LockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire rebuild lock: %w", err)
	}
	return token, ok, nil
}

// unlock 只删自己持有的锁；token 不匹配（锁已过期易主）时什么都不做
func (r *redisMyList) unlock(ctx context.Context, userID, sig, token string) error {
	err := r.rdb.Eval(ctx, unlockScript, []string{lockKey(userID, sig)}, token).Err()
	if err != nil {
		return fmt.Errorf("release rebuild lock: %w", err)
	}
	return nil
}
