package cache

import (
	"math/rand"
	"time"
)

const (
	PageTTL    = 10 * time.Minute   // 页缓存基础过期时间
	PageJitter = 2 * time.Minute    // 随机抖动范围
	VersionTTL = 7 * 24 * time.Hour // 版本键过期时间，必须远大于页 TTL
	LockTTL    = 5 * time.Second    // 重建锁 TTL，要盖住一次回源的最坏耗时

	DefaultLimit = 10
	MaxLimit     = 50

	// 抢锁失败后的有限轮询：最多等 lockPollMax 次，等不到就直接回源
	lockPollInterval = 50 * time.Millisecond
	lockPollMax      = 20
)

// Options 允许从配置覆盖缓存策略，零值字段用上面的默认值
type Options struct {
	PageTTL      time.Duration
	LockTTL      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func (o Options) withDefaults() Options {
	if o.PageTTL <= 0 {
		o.PageTTL = PageTTL
	}
	if o.LockTTL <= 0 {
		o.LockTTL = LockTTL
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = MaxLimit
	}
	return o
}

// 获取随机TTL，防止缓存雪崩
func (r *redisMyList) getRandomTTL() time.Duration {
	// Int63n返回一个int64的值
	return r.opt.PageTTL + time.Duration(rand.Int63n(int64(PageJitter)))
}
