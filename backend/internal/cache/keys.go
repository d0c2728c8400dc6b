package cache

import "fmt"

// 键语义：
// - versionKey(userID):        用户列表版本号（String 整数，INCR 失效全部页）
// - pageKey(userID,sig,v):     某个查询形状在版本 v 下的整页 JSON（String，带 TTL）
// - lockKey(userID,sig):       冷缓存重建锁（String=持有者 token，带 TTL）

// 版本号 version:String
// 页缓存 page:String TTL
// 重建锁 lock:String TTL

const (
	keyVersionFmt = "mylist:%s:version"     // String int64
	keyPageFmt    = "mylist:%s:page:%s:v%d" // String JSON with TTL
	keyLockFmt    = "mylist:lock:%s:%s"     // String holder token with TTL
)

func versionKey(userID string) string { return fmt.Sprintf(keyVersionFmt, userID) }
func pageKey(userID, sig string, version int64) string {
	return fmt.Sprintf(keyPageFmt, userID, sig, version)
}
func lockKey(userID, sig string) string { return fmt.Sprintf(keyLockFmt, userID, sig) }

// pageSignature 把 (游标, limit) 压成一个确定性的串，不同查询形状不会互相撞键
// 游标 token 本身就是 URL-safe 的，直接入键；空游标（第一页）固定用 "first"
func pageSignature(cursor string, limit int) string {
	if cursor == "" {
		cursor = "first"
	}
	return fmt.Sprintf("%s:l%d", cursor, limit)
}
