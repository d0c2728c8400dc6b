package mysqldb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"mylist-service/backend/internal/entity"
	"mylist-service/backend/internal/repo"
)

// 集成测试需要真 MySQL：
//
//	MYLIST_TEST_MYSQL_DSN="root:root@tcp(127.0.0.1:3306)/mylist_test?charset=utf8mb4&parseTime=true&loc=UTC"
//
// 没配就跳过
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("MYLIST_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("skip: MYLIST_TEST_MYSQL_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skipf("skip: mysql not available: %v", err)
	}
	if err := db.AutoMigrate(&entity.ListItem{}, &entity.Content{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestInsertIfAbsentIsIdempotent(t *testing.T) {
	store := NewMySQLListStore(testDB(t))
	ctx := context.Background()
	userID := "user-" + uuid.NewString()
	at := time.Now().UTC().Truncate(time.Millisecond)

	first, inserted, err := store.InsertIfAbsent(ctx, &entity.ListItem{
		UserID: userID, ContentID: "m1", ContentType: "movie", CreatedAt: at,
	})
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}

	second, inserted, err := store.InsertIfAbsent(ctx, &entity.ListItem{
		UserID: userID, ContentID: "m1", ContentType: "movie", CreatedAt: at.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Fatal("duplicate insert reported as new")
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate insert returned a different row: %d vs %d", second.ID, first.ID)
	}

	rows, err := store.QueryPage(ctx, userID, nil, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("list should hold the item exactly once, got %d rows", len(rows))
	}
}

func TestDeleteIfExists(t *testing.T) {
	store := NewMySQLListStore(testDB(t))
	ctx := context.Background()
	userID := "user-" + uuid.NewString()

	if _, _, err := store.InsertIfAbsent(ctx, &entity.ListItem{
		UserID: userID, ContentID: "m1", ContentType: "movie",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deleted, err := store.DeleteIfExists(ctx, userID, "m1")
	if err != nil || !deleted {
		t.Fatalf("delete existing: deleted=%v err=%v", deleted, err)
	}
	deleted, err = store.DeleteIfExists(ctx, userID, "m1")
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if deleted {
		t.Fatal("delete of missing row reported as deleted")
	}
}

// 键集翻页：时间戳故意相同，验证 id tie-break 下逐页走完不重不漏
func TestQueryPageKeysetOrder(t *testing.T) {
	store := NewMySQLListStore(testDB(t))
	ctx := context.Background()
	userID := "user-" + uuid.NewString()

	base := time.Now().UTC().Truncate(time.Millisecond)
	contentIDs := []string{"a", "b", "c", "d", "e"}
	times := []time.Time{base, base, base.Add(time.Second), base.Add(time.Second), base.Add(2 * time.Second)}
	for i, cid := range contentIDs {
		if _, _, err := store.InsertIfAbsent(ctx, &entity.ListItem{
			UserID: userID, ContentID: cid, ContentType: "movie", CreatedAt: times[i],
		}); err != nil {
			t.Fatalf("insert %s: %v", cid, err)
		}
	}

	seen := map[string]bool{}
	var after *repo.ListPosition
	for {
		rows, err := store.QueryPage(ctx, userID, after, 2)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			if seen[row.ContentID] {
				t.Fatalf("row %s returned twice", row.ContentID)
			}
			seen[row.ContentID] = true
			if after != nil {
				descending := row.CreatedAt.Before(after.CreatedAt) ||
					(row.CreatedAt.Equal(after.CreatedAt) && row.ID < after.ID)
				if !descending {
					t.Fatalf("order violated at %+v after %+v", row, after)
				}
			}
			after = &repo.ListPosition{CreatedAt: row.CreatedAt, ID: row.ID}
		}
	}
	if len(seen) != len(contentIDs) {
		t.Fatalf("walk visited %d of %d rows", len(seen), len(contentIDs))
	}
}

func TestContentExists(t *testing.T) {
	db := testDB(t)
	store := NewMySQLListStore(db)
	ctx := context.Background()

	if err := SeedContent(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ok, err := store.ContentExists(ctx, "m1", "movie")
	if err != nil || !ok {
		t.Fatalf("seeded content missing: ok=%v err=%v", ok, err)
	}
	// 类型对不上也算不存在
	ok, err = store.ContentExists(ctx, "m1", "tv")
	if err != nil || ok {
		t.Fatalf("wrong type should not match: ok=%v err=%v", ok, err)
	}
	ok, err = store.ContentExists(ctx, "nope-"+uuid.NewString(), "movie")
	if err != nil || ok {
		t.Fatalf("unknown content should not exist: ok=%v err=%v", ok, err)
	}
}
