package pedigree

import (
	"context"
	"errors"
	"testing"
	"time"

	"cattery-site/internal/domain/cats"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	conns []Connection
	trees map[string]Tree
}

func newTestRepo() *testRepo {
	return &testRepo{trees: map[string]Tree{}}
}

func (r *testRepo) CreateConnection(ctx context.Context, c Connection) error {
	r.conns = append(r.conns, c)
	return nil
}

func (r *testRepo) DeleteConnection(ctx context.Context, id string) error {
	for i, c := range r.conns {
		if c.ID == id {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *testRepo) ListByParent(ctx context.Context, catID string) ([]Connection, error) {
	out := make([]Connection, 0)
	for _, c := range r.conns {
		if c.ParentID == catID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) ListByChild(ctx context.Context, catID string) ([]Connection, error) {
	out := make([]Connection, 0)
	for _, c := range r.conns {
		if c.ChildID == catID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) SaveTree(ctx context.Context, t Tree) error {
	r.trees[t.RootCatID] = t
	return nil
}

func (r *testRepo) GetTreeByRoot(ctx context.Context, rootCatID string) (Tree, error) {
	t, ok := r.trees[rootCatID]
	if !ok {
		return Tree{}, ErrNotFound
	}
	return t, nil
}

type testCats struct {
	byID map[string]cats.Cat
}

func newTestCats(ids ...string) *testCats {
	tc := &testCats{byID: map[string]cats.Cat{}}
	for _, id := range ids {
		tc.byID[id] = cats.Cat{ID: id, Name: "cat " + id}
	}
	return tc
}

func (tc *testCats) GetByID(ctx context.Context, id string) (cats.Cat, error) {
	c, ok := tc.byID[id]
	if !ok {
		return cats.Cat{}, cats.ErrNotFound
	}
	return c, nil
}

func connect(t *testing.T, svc *Service, parentID, childID string, role Role) Connection {
	t.Helper()
	c, err := svc.Connect(context.Background(), parentID, childID, role)
	if err != nil {
		t.Fatalf("Connect %s->%s (%s): %v", parentID, childID, role, err)
	}
	return c
}

// -------------------------
// Tests
// -------------------------

func TestService_Connect_UnconditionalWrite(t *testing.T) {
	repo := newTestRepo()
	// el getter no conoce a nadie: Connect no valida existencia
	svc := NewService(repo, newTestCats())

	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	c := connect(t, svc, "mother-1", "child-1", RoleMother)
	if c.ID == "" {
		t.Fatalf("expected generated id")
	}
	if c.CreatedAt != now {
		t.Fatalf("expected CreatedAt to be now")
	}

	// dos aristas con el mismo rol para el mismo hijo: también se aceptan
	connect(t, svc, "mother-2", "child-1", RoleMother)
	if len(repo.conns) != 2 {
		t.Fatalf("expected 2 connections stored, got %d", len(repo.conns))
	}
}

func TestService_Connect_RejectsBadInput(t *testing.T) {
	svc := NewService(newTestRepo(), newTestCats())

	if _, err := svc.Connect(context.Background(), "", "child", RoleMother); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty parent, got %v", err)
	}
	if _, err := svc.Connect(context.Background(), "parent", "child", Role("cousin")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad role, got %v", err)
	}
}

func TestService_BuildAncestorTree_TwoGenerations(t *testing.T) {
	repo := newTestRepo()
	tc := newTestCats("child", "mom", "dad", "grandma")
	svc := NewService(repo, tc)

	connect(t, svc, "mom", "child", RoleMother)
	connect(t, svc, "dad", "child", RoleFather)
	connect(t, svc, "grandma", "mom", RoleMother)

	node, err := svc.BuildAncestorTree(context.Background(), "child", 0)
	if err != nil {
		t.Fatalf("BuildAncestorTree error: %v", err)
	}

	if node.Cat.ID != "child" {
		t.Fatalf("expected root child, got %s", node.Cat.ID)
	}
	if node.Mother == nil || node.Mother.Cat.ID != "mom" {
		t.Fatalf("expected mother mom, got %+v", node.Mother)
	}
	if node.Father == nil || node.Father.Cat.ID != "dad" {
		t.Fatalf("expected father dad, got %+v", node.Father)
	}
	if node.Mother.Mother == nil || node.Mother.Mother.Cat.ID != "grandma" {
		t.Fatalf("expected grandma on mother side, got %+v", node.Mother.Mother)
	}
	if node.Father.Mother != nil || node.Father.Father != nil {
		t.Fatalf("expected dad without known parents")
	}
}

func TestService_BuildAncestorTree_DepthLimit(t *testing.T) {
	repo := newTestRepo()
	// cadena c0 <- c1 <- c2 <- c3 por línea materna
	tc := newTestCats("c0", "c1", "c2", "c3")
	svc := NewService(repo, tc)

	connect(t, svc, "c1", "c0", RoleMother)
	connect(t, svc, "c2", "c1", RoleMother)
	connect(t, svc, "c3", "c2", RoleMother)

	node, err := svc.BuildAncestorTree(context.Background(), "c0", 2)
	if err != nil {
		t.Fatalf("BuildAncestorTree error: %v", err)
	}

	if node.Mother == nil || node.Mother.Mother == nil {
		t.Fatalf("expected two generations present")
	}
	if node.Mother.Mother.Mother != nil {
		t.Fatalf("expected third generation cut by depth limit")
	}
}

func TestService_BuildAncestorTree_DuplicateRole_FirstWins(t *testing.T) {
	repo := newTestRepo()
	tc := newTestCats("child", "mom-a", "mom-b")
	svc := NewService(repo, tc)

	connect(t, svc, "mom-a", "child", RoleMother)
	connect(t, svc, "mom-b", "child", RoleMother)

	node, err := svc.BuildAncestorTree(context.Background(), "child", 0)
	if err != nil {
		t.Fatalf("BuildAncestorTree error: %v", err)
	}
	if node.Mother == nil || node.Mother.Cat.ID != "mom-a" {
		t.Fatalf("expected first-inserted mother to win, got %+v", node.Mother)
	}
}

func TestService_BuildAncestorTree_CycleCutsBranchOnly(t *testing.T) {
	repo := newTestRepo()
	tc := newTestCats("a", "b", "dad")
	svc := NewService(repo, tc)

	// ciclo a <-> b por línea materna, más un padre sano para a
	connect(t, svc, "b", "a", RoleMother)
	connect(t, svc, "a", "b", RoleMother)
	connect(t, svc, "dad", "a", RoleFather)

	node, err := svc.BuildAncestorTree(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("BuildAncestorTree error: %v", err)
	}

	if node.Mother == nil || node.Mother.Cat.ID != "b" {
		t.Fatalf("expected mother b, got %+v", node.Mother)
	}
	// la arista b->madre=a cerraría el ciclo: esa rama se corta
	if node.Mother.Mother != nil {
		t.Fatalf("expected cycle branch cut, got %+v", node.Mother.Mother)
	}
	// el resto del árbol sobrevive
	if node.Father == nil || node.Father.Cat.ID != "dad" {
		t.Fatalf("expected father branch to survive cycle, got %+v", node.Father)
	}
}

func TestService_BuildAncestorTree_DanglingEdgeSkipsBranch(t *testing.T) {
	repo := newTestRepo()
	tc := newTestCats("child", "dad") // mom no existe
	svc := NewService(repo, tc)

	connect(t, svc, "ghost-mom", "child", RoleMother)
	connect(t, svc, "dad", "child", RoleFather)

	node, err := svc.BuildAncestorTree(context.Background(), "child", 0)
	if err != nil {
		t.Fatalf("BuildAncestorTree error: %v", err)
	}
	if node.Mother != nil {
		t.Fatalf("expected dangling mother edge skipped, got %+v", node.Mother)
	}
	if node.Father == nil || node.Father.Cat.ID != "dad" {
		t.Fatalf("expected father branch intact, got %+v", node.Father)
	}
}

func TestService_BuildAncestorTree_RootNotFound(t *testing.T) {
	svc := NewService(newTestRepo(), newTestCats())

	if _, err := svc.BuildAncestorTree(context.Background(), "ghost", 0); !errors.Is(err, cats.ErrNotFound) {
		t.Fatalf("expected cats.ErrNotFound for unknown root, got %v", err)
	}
}

func TestService_SaveTree_ReplacesSameRoot(t *testing.T) {
	repo := newTestRepo()
	tc := newTestCats("root", "mom")
	svc := NewService(repo, tc)

	now1 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now1 }

	t1, err := svc.SaveTree(context.Background(), SaveTreeInput{RootCatID: "root", Name: "before"})
	if err != nil {
		t.Fatalf("SaveTree #1 error: %v", err)
	}

	// aparece la madre y se vuelve a guardar: misma raíz, otra foto
	connect(t, svc, "mom", "root", RoleMother)
	svc.now = func() time.Time { return now1.Add(time.Hour) }

	t2, err := svc.SaveTree(context.Background(), SaveTreeInput{RootCatID: "root", Name: "after"})
	if err != nil {
		t.Fatalf("SaveTree #2 error: %v", err)
	}

	stored, err := svc.GetTreeByRoot(context.Background(), "root")
	if err != nil {
		t.Fatalf("GetTreeByRoot error: %v", err)
	}
	if stored.Name != "after" || stored.TreeData != t2.TreeData {
		t.Fatalf("expected replaced tree, got %+v", stored)
	}
	if stored.TreeData == t1.TreeData {
		t.Fatalf("expected tree data to change after new connection")
	}

	node, err := DeserializeTree(stored.TreeData)
	if err != nil {
		t.Fatalf("DeserializeTree error: %v", err)
	}
	if node.Mother == nil || node.Mother.Cat.ID != "mom" {
		t.Fatalf("expected stored snapshot with mother, got %+v", node)
	}
}

func TestService_SaveTree_RequiresRootAndName(t *testing.T) {
	svc := NewService(newTestRepo(), newTestCats("root"))

	if _, err := svc.SaveTree(context.Background(), SaveTreeInput{Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without root, got %v", err)
	}
	if _, err := svc.SaveTree(context.Background(), SaveTreeInput{RootCatID: "root"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without name, got %v", err)
	}
}
