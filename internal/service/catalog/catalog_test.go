package catalog

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/redis"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]string
	gets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value.(string)
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	v, ok := f.items[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.items, k)
	}
	return nil
}

func TestCourseCRUD(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	ctx := context.Background()

	created, err := svc.CreateCourse(ctx, &models.Course{
		Name:       "Computer Science Engineering",
		Code:       "CSE",
		Department: "Computer Science",
		Duration:   "4 years",
		Fees:       85000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create should assign an id")
	}

	got, err := svc.GetCourse(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "CSE" || got.Fees != 85000 {
		t.Fatalf("got %+v", got)
	}

	got.Fees = 90000
	updated, err := svc.UpdateCourse(ctx, created.ID, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Fees != 90000 {
		t.Fatalf("updated fees = %d, want 90000", updated.Fees)
	}

	list, err := svc.ListCourses(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}

	if err := svc.DeleteCourse(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetCourse(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateMissingRowReturnsNotFound(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	ctx := context.Background()

	if _, err := svc.UpdateCourse(ctx, "missing", &models.Course{Name: "x", Code: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update course: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteNotice(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete notice: err = %v, want ErrNotFound", err)
	}
}

func TestNoticePublishedFilter(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	ctx := context.Background()

	if _, err := svc.CreateNotice(ctx, &models.Notice{Title: "Holiday tomorrow", Published: true}); err != nil {
		t.Fatalf("create published: %v", err)
	}
	if _, err := svc.CreateNotice(ctx, &models.Notice{Title: "Draft circular", Published: false}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	visible, err := svc.ListNotices(ctx, true, 0)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(visible) != 1 || visible[0].Title != "Holiday tomorrow" {
		t.Fatalf("published list = %+v", visible)
	}

	all, err := svc.ListNotices(ctx, false, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all list length = %d, want 2", len(all))
	}
}

func TestDepartmentDataScoping(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	ctx := context.Background()

	cse, err := svc.CreateDepartment(ctx, &models.Department{Name: "Computer Science", Code: "CSE"})
	if err != nil {
		t.Fatalf("create cse: %v", err)
	}
	ece, err := svc.CreateDepartment(ctx, &models.Department{Name: "Electronics", Code: "ECE"})
	if err != nil {
		t.Fatalf("create ece: %v", err)
	}

	row, err := svc.CreateDepartmentData(ctx, &models.DepartmentData{
		DepartmentID: cse.ID,
		Title:        "Lab timings",
		Content:      "9 AM to 5 PM",
	})
	if err != nil {
		t.Fatalf("create data: %v", err)
	}

	// Another department must not be able to touch the row.
	if _, err := svc.UpdateDepartmentData(ctx, ece.ID, row.ID, row); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-department update: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteDepartmentData(ctx, ece.ID, row.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-department delete: err = %v, want ErrNotFound", err)
	}

	row.Content = "8 AM to 4 PM"
	if _, err := svc.UpdateDepartmentData(ctx, cse.ID, row.ID, row); err != nil {
		t.Fatalf("owner update: %v", err)
	}

	// Deleting the department cascades to its data.
	if err := svc.DeleteDepartment(ctx, cse.ID); err != nil {
		t.Fatalf("delete department: %v", err)
	}
	rows, err := svc.ListDepartmentData(ctx, cse.ID, 0)
	if err != nil {
		t.Fatalf("list after cascade: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("cascade left %d rows", len(rows))
	}
}

func TestDepartmentAccountVerify(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, &models.Department{Name: "Mechanical", Code: "ME"})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}
	acct, err := svc.CreateDepartmentAccount(ctx, dept.ID, "me-office", "wrench123")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if acct.PasswordHash == "wrench123" {
		t.Fatal("password must be stored hashed")
	}

	got, err := svc.VerifyDepartmentAccount(ctx, "me-office", "wrench123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.DepartmentID != dept.ID {
		t.Fatalf("verified department = %q, want %q", got.DepartmentID, dept.ID)
	}

	if _, err := svc.VerifyDepartmentAccount(ctx, "me-office", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidLogin", err)
	}
	if _, err := svc.VerifyDepartmentAccount(ctx, "ghost", "wrench123"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("unknown user: err = %v, want ErrInvalidLogin", err)
	}
}

func TestSettingsCacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(newTestDB(t), cache)
	ctx := context.Background()

	if err := svc.PutSetting(ctx, "college_name", "Govt. Degree College"); err != nil {
		t.Fatalf("put: %v", err)
	}

	// First read misses the cache and fills it.
	v, err := svc.GetSetting(ctx, "college_name")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "Govt. Degree College" {
		t.Fatalf("value = %q", v)
	}
	if _, ok := cache.items[settingCacheKey("college_name")]; !ok {
		t.Fatal("cache should hold the value after a read")
	}

	// A write invalidates the cached copy.
	if err := svc.PutSetting(ctx, "college_name", "Govt. Engineering College"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, ok := cache.items[settingCacheKey("college_name")]; ok {
		t.Fatal("cache should be invalidated on write")
	}
	v, err = svc.GetSetting(ctx, "college_name")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if v != "Govt. Engineering College" {
		t.Fatalf("value after overwrite = %q", v)
	}

	if _, err := svc.GetSetting(ctx, "missing_key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: err = %v, want ErrNotFound", err)
	}
}

func TestCourtOfficeCRUD(t *testing.T) {
	svc := NewService(newTestDB(t), nil)
	ctx := context.Background()

	created, err := svc.CreateCourtOffice(ctx, &models.CourtOffice{
		Name:       "Copying Section",
		RoomNumber: "104",
		Building:   "Main Building",
		Floor:      "Ground",
		Services:   "certified copies",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.ListCourtOffices(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].RoomNumber != "104" {
		t.Fatalf("list = %+v", list)
	}

	created.Floor = "First"
	if _, err := svc.UpdateCourtOffice(ctx, created.ID, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteCourtOffice(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
