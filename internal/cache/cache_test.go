package cache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"commerce/connector/internal/domain"
)

type fakeGateway struct {
	mu        sync.Mutex
	treeCalls int

	tree      func() *domain.CategoryTree
	treeDelay time.Duration
	treeErr   error
}

func (f *fakeGateway) GetCategoryTree(ctx context.Context, rootID int) (*domain.CategoryTree, error) {
	f.mu.Lock()
	f.treeCalls++
	f.mu.Unlock()

	if f.treeDelay > 0 {
		time.Sleep(f.treeDelay)
	}
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	if f.tree == nil {
		return nil, nil
	}
	return f.tree(), nil
}

func (f *fakeGateway) GetProductBySku(ctx context.Context, sku string) (*domain.Product, error) {
	return nil, nil
}

func (f *fakeGateway) GetCategoryProducts(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	return nil, nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.treeCalls
}

// testTree returns a fresh consistent tree on every call: root 2 with Men
// and Men/Coats below it.
func testTree() *domain.CategoryTree {
	coats := &domain.CategoryTree{ID: 11, Name: "Coats", URLPath: "Men/Coats"}
	men := &domain.CategoryTree{ID: 10, Name: "Men", URLPath: "Men", Children: []*domain.CategoryTree{coats}}
	return &domain.CategoryTree{ID: 2, Name: "Root", Children: []*domain.CategoryTree{men}}
}

func TestInitPublishesSnapshot(t *testing.T) {
	gw := &fakeGateway{tree: testTree}
	c := New(gw, 2, true, nil)

	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	snap := c.Snapshot()
	if snap == nil {
		t.Fatal("expected a published snapshot")
	}
	if !snap.HasPath("") {
		t.Error("root must be present under the empty path")
	}
	if got := snap.Category("Men/Coats"); got == nil || got.ID != 11 {
		t.Errorf("Category(Men/Coats) = %+v, want id 11", got)
	}
	if path, ok := snap.PathByID(11); !ok || path != "Men/Coats" {
		t.Errorf("PathByID(11) = %q, %v", path, ok)
	}
	if path, ok := snap.PathByID(2); !ok || path != "" {
		t.Errorf("PathByID(2) = %q, %v, want empty path", path, ok)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	gw := &fakeGateway{tree: testTree}
	c := New(gw, 2, true, nil)
	ctx := context.Background()

	if err := c.ScheduledRefresh(ctx); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	first := c.Snapshot()

	if err := c.ScheduledRefresh(ctx); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	second := c.Snapshot()

	if first == second {
		t.Fatal("refresh must publish a new snapshot value")
	}

	firstPaths, secondPaths := first.Paths(), second.Paths()
	sort.Strings(firstPaths)
	sort.Strings(secondPaths)
	if len(firstPaths) != len(secondPaths) {
		t.Fatalf("path counts differ: %d vs %d", len(firstPaths), len(secondPaths))
	}
	for i, path := range firstPaths {
		if secondPaths[i] != path {
			t.Fatalf("paths differ at %d: %q vs %q", i, path, secondPaths[i])
		}
		if first.Category(path).ID != second.Category(path).ID {
			t.Errorf("category id differs at %q", path)
		}
	}
}

func TestRepairTreeFixesInconsistentLinks(t *testing.T) {
	// Coats carries the url path Men/Coats but arrives attached to Women,
	// and Men arrives without children.
	inconsistent := func() *domain.CategoryTree {
		coats := &domain.CategoryTree{ID: 11, Name: "Coats", URLPath: "Men/Coats"}
		men := &domain.CategoryTree{ID: 10, Name: "Men", URLPath: "Men"}
		women := &domain.CategoryTree{ID: 12, Name: "Women", URLPath: "Women", Children: []*domain.CategoryTree{coats}}
		return &domain.CategoryTree{ID: 2, Children: []*domain.CategoryTree{men, women}}
	}

	gw := &fakeGateway{tree: inconsistent}
	c := New(gw, 2, true, nil)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	snap := c.Snapshot()

	men := snap.Category("Men")
	count := 0
	for _, child := range men.Children {
		if child.ID == 11 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Coats appears %d times under Men, want exactly once", count)
	}

	women := snap.Category("Women")
	if len(women.Children) != 0 {
		t.Errorf("Women still has %d children, cross-link not removed", len(women.Children))
	}

	// Every child extends its parent's url path.
	for _, path := range snap.Paths() {
		node := snap.Category(path)
		if node.URLPath == "" {
			continue
		}
		for _, child := range node.Children {
			if len(child.URLPath) <= len(node.URLPath) || child.URLPath[:len(node.URLPath)] != node.URLPath {
				t.Errorf("child %q does not extend parent %q", child.URLPath, node.URLPath)
			}
		}
	}
}

func TestInitConcurrentSingleFetch(t *testing.T) {
	gw := &fakeGateway{tree: testTree, treeDelay: 50 * time.Millisecond}
	c := New(gw, 2, true, nil)

	const callers = 20
	snapshots := make([]*Snapshot, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := c.Init(context.Background()); err != nil {
				t.Errorf("Init: %v", err)
			}
			snapshots[i] = c.Snapshot()
		}(i)
	}
	wg.Wait()

	if got := gw.calls(); got != 1 {
		t.Errorf("GetCategoryTree called %d times, want 1", got)
	}
	for i, snap := range snapshots {
		if snap != snapshots[0] {
			t.Errorf("caller %d observed a different snapshot", i)
		}
	}
}

func TestInitRetriesAfterEmptyTree(t *testing.T) {
	attempt := 0
	gw := &fakeGateway{tree: func() *domain.CategoryTree {
		attempt++
		if attempt == 1 {
			return &domain.CategoryTree{ID: 2} // no children
		}
		return testTree()
	}}
	c := New(gw, 2, true, nil)
	ctx := context.Background()

	if err := c.Init(ctx); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("first Init = %v, want ErrEmptyCatalog", err)
	}
	if c.Snapshot() != nil {
		t.Fatal("empty tree must not publish a snapshot")
	}

	if err := c.Init(ctx); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if c.Snapshot() == nil {
		t.Fatal("expected a snapshot after the second attempt")
	}
	if got := gw.calls(); got != 2 {
		t.Errorf("GetCategoryTree called %d times, want 2", got)
	}
}

func TestFailedRefreshKeepsSnapshot(t *testing.T) {
	gw := &fakeGateway{tree: testTree}
	c := New(gw, 2, true, nil)
	ctx := context.Background()

	if err := c.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	published := c.Snapshot()

	gw.treeErr = errors.New("gateway down")
	if err := c.ScheduledRefresh(ctx); err == nil {
		t.Fatal("expected the fetch error to propagate out of the refresh")
	}
	if c.Snapshot() != published {
		t.Error("failed refresh must keep the previous snapshot")
	}
}

func TestCachingDisabledRebuildsEveryInit(t *testing.T) {
	gw := &fakeGateway{tree: testTree}
	c := New(gw, 2, false, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Init(ctx); err != nil {
			t.Fatalf("Init %d: %v", i, err)
		}
	}
	if got := gw.calls(); got != 3 {
		t.Errorf("GetCategoryTree called %d times, want 3", got)
	}
}

func TestScheduledRefreshSkipsWhenBuildInProgress(t *testing.T) {
	gw := &fakeGateway{tree: testTree}
	c := New(gw, 2, true, nil)

	c.mu.Lock()
	err := c.ScheduledRefresh(context.Background())
	c.mu.Unlock()

	if err != nil {
		t.Fatalf("ScheduledRefresh: %v", err)
	}
	if got := gw.calls(); got != 0 {
		t.Errorf("GetCategoryTree called %d times during a held lock, want 0", got)
	}
}
