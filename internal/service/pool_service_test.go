package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/tankapool/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestPoolCountTracksInsertsAndDeletes(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewPoolService(gdb)

	var ids []uint
	for i := 0; i < 3; i++ {
		id, err := svc.Insert(fmt.Sprintf("短歌その%d", i), nil, nil)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}

	if err := svc.Delete(ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// 不存在的 ID 删除应当是无声的空操作
	if err := svc.Delete(99999); err != nil {
		t.Fatalf("delete missing id: %v", err)
	}

	count, err = svc.Count()
	if err != nil {
		t.Fatalf("recount: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestPickRandomEmptyPool(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewPoolService(gdb)
	if _, err := svc.PickRandom(); err != ErrPoolEmpty {
		t.Fatalf("expected ErrPoolEmpty, got %v", err)
	}
}

func TestPickRandomDoesNotMutatePool(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewPoolService(gdb)
	id, err := svc.Insert("只此一首", nil, nil)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	for i := 0; i < 3; i++ {
		candidate, err := svc.PickRandom()
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if candidate.ID != id || candidate.Content != "只此一首" {
			t.Fatalf("unexpected candidate: %+v", candidate)
		}
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("pick must not mutate the pool, got count %d", count)
	}
}

func TestInsertRejectsUnknownOwner(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewPoolService(gdb)
	missing := uint(424242)
	if _, err := svc.Insert("孤児の短歌", &missing, nil); err == nil {
		t.Fatal("expected foreign key violation for unknown owner")
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed insert must not leave rows, got %d", count)
	}
}

func TestEmbeddingBackfillFlow(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewPoolService(gdb)
	plain, err := svc.Insert("向量未生成", nil, nil)
	if err != nil {
		t.Fatalf("insert plain: %v", err)
	}
	if _, err := svc.Insert("向量已生成", nil, []float64{0.1, 0.2}); err != nil {
		t.Fatalf("insert with embedding: %v", err)
	}

	pending, err := svc.TankasWithoutEmbeddings()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != plain {
		t.Fatalf("expected only the plain tanka pending, got %+v", pending)
	}

	if err := svc.UpdateEmbedding(plain, []float64{0.3, 0.4}); err != nil {
		t.Fatalf("update embedding: %v", err)
	}

	pending, err = svc.TankasWithoutEmbeddings()
	if err != nil {
		t.Fatalf("relist pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending tankas, got %d", len(pending))
	}
}

func TestCategorizeIgnoresUnknownNames(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	if err := gdb.Create(&db.Category{Name: "恋", Description: "test"}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	svc := NewPoolService(gdb)
	id, err := svc.Insert("分類される短歌", nil, nil)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.Categorize(id, []string{"恋", "没有这个分类"}); err != nil {
		t.Fatalf("categorize: %v", err)
	}

	var links int64
	if err := gdb.Table("tanka_categories").Where("tanka_id = ?", id).Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 1 {
		t.Fatalf("expected one category link, got %d", links)
	}
}
