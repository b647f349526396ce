package inventory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/cache"
	"estateportal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeCatalog struct {
	mu         sync.Mutex
	treeCalls  int32
	unitCalls  int32
	tree       Tree
	treeErr    error
	units      map[int64]Unit
	fetchDelay time.Duration
}

func (f *fakeCatalog) FetchTree(ctx context.Context, projectID int64) (Tree, error) {
	atomic.AddInt32(&f.treeCalls, 1)
	if f.fetchDelay > 0 {
		time.Sleep(f.fetchDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.treeErr != nil {
		return Tree{}, f.treeErr
	}
	return f.tree, nil
}

func (f *fakeCatalog) FetchUnit(ctx context.Context, unitID int64) (Unit, error) {
	atomic.AddInt32(&f.unitCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	unit, ok := f.units[unitID]
	if !ok {
		return Unit{}, apperr.NotFound("inventory record not found")
	}
	return unit, nil
}

func testCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestTreeCachesAcrossCalls(t *testing.T) {
	fake := &fakeCatalog{tree: demoTree()}
	svc := NewService(fake, testCache(t), time.Minute, logger.New("development"))

	ctx := context.Background()
	first, err := svc.Tree(ctx, 1)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	second, err := svc.Tree(ctx, 1)
	if err != nil {
		t.Fatalf("Tree (cached): %v", err)
	}

	if got := atomic.LoadInt32(&fake.treeCalls); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
	if len(first.Towers) != len(second.Towers) {
		t.Errorf("cached tree differs: %d vs %d towers", len(first.Towers), len(second.Towers))
	}
}

func TestTreeWorksWithoutCache(t *testing.T) {
	fake := &fakeCatalog{tree: demoTree()}
	svc := NewService(fake, nil, time.Minute, logger.New("development"))

	ctx := context.Background()
	if _, err := svc.Tree(ctx, 1); err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if _, err := svc.Tree(ctx, 1); err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if got := atomic.LoadInt32(&fake.treeCalls); got != 2 {
		t.Errorf("upstream calls = %d, want 2 without a cache", got)
	}
}

func TestTreeCollapsesConcurrentFetches(t *testing.T) {
	fake := &fakeCatalog{tree: demoTree(), fetchDelay: 30 * time.Millisecond}
	svc := NewService(fake, nil, time.Minute, logger.New("development"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Tree(context.Background(), 1); err != nil {
				t.Errorf("Tree: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&fake.treeCalls); got != 1 {
		t.Errorf("upstream calls = %d, want 1 for concurrent identical fetches", got)
	}
}

func TestInvalidateDropsCachedTree(t *testing.T) {
	fake := &fakeCatalog{tree: demoTree()}
	svc := NewService(fake, testCache(t), time.Minute, logger.New("development"))

	ctx := context.Background()
	if _, err := svc.Tree(ctx, 1); err != nil {
		t.Fatal(err)
	}
	svc.Invalidate(ctx, 1)
	if _, err := svc.Tree(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt32(&fake.treeCalls); got != 2 {
		t.Errorf("upstream calls = %d, want 2 after invalidation", got)
	}
}

func TestResolveUnitPrefersTree(t *testing.T) {
	fake := &fakeCatalog{tree: demoTree()}
	svc := NewService(fake, nil, time.Minute, logger.New("development"))

	unit, err := svc.ResolveUnit(context.Background(), 1, 1001)
	if err != nil {
		t.Fatalf("ResolveUnit: %v", err)
	}
	if unit.Label != "A-101" {
		t.Errorf("unit = %+v", unit)
	}
	if got := atomic.LoadInt32(&fake.unitCalls); got != 0 {
		t.Errorf("by-unit calls = %d, want 0 when the tree has the unit", got)
	}
}

func TestResolveUnitFallsBackToByUnit(t *testing.T) {
	fake := &fakeCatalog{
		tree:  demoTree(),
		units: map[int64]Unit{9001: {ID: 9001, Label: "OLD-01", AvailabilityStatus: "SOLD"}},
	}
	svc := NewService(fake, nil, time.Minute, logger.New("development"))

	unit, err := svc.ResolveUnit(context.Background(), 1, 9001)
	if err != nil {
		t.Fatalf("ResolveUnit: %v", err)
	}
	if unit.Label != "OLD-01" {
		t.Errorf("unit = %+v", unit)
	}

	if _, err := svc.ResolveUnit(context.Background(), 1, 9999); err == nil {
		t.Error("expected not found for a unit absent everywhere")
	}
}

func TestResolveUnitFallsBackWhenTreeFails(t *testing.T) {
	fake := &fakeCatalog{
		treeErr: errors.New("inventory down"),
		units:   map[int64]Unit{1001: {ID: 1001, Label: "A-101", AvailabilityStatus: "AVAILABLE"}},
	}
	svc := NewService(fake, nil, time.Minute, logger.New("development"))

	unit, err := svc.ResolveUnit(context.Background(), 1, 1001)
	if err != nil {
		t.Fatalf("ResolveUnit: %v", err)
	}
	if unit.ID != 1001 {
		t.Errorf("unit = %+v", unit)
	}
}

func TestEnsureSelectable(t *testing.T) {
	svc := NewService(&fakeCatalog{}, nil, time.Minute, logger.New("development"))

	if err := svc.EnsureSelectable(Unit{Label: "A-101", AvailabilityStatus: "AVAILABLE"}); err != nil {
		t.Errorf("available unit rejected: %v", err)
	}

	err := svc.EnsureSelectable(Unit{Label: "A-102", AvailabilityStatus: "HOLD"})
	if err == nil {
		t.Fatal("non-available unit accepted")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Errorf("kind = %v, want validation", err)
	}
}
