package projects

import (
	"context"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/backendtest"
	"github.com/starford/ansuz/internal/failure"
	"github.com/starford/ansuz/internal/transport"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	srv := backendtest.New(t)
	return NewRepository(transport.New(srv.URL, "", 5*time.Second))
}

func TestCreateListDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Draft{Name: "Website", Description: "Redesign"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Name != "Website" {
		t.Errorf("created = %+v", created)
	}
	if created.Status != "active" {
		t.Errorf("status = %q, want backend default", created.Status)
	}

	items, total, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("got %d items, total %d", len(items), total)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !failure.IsKind(err, failure.NotFound) {
		t.Errorf("Get after delete: %v, want NotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Draft{Name: "old name"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := repo.Update(ctx, created.ID, Draft{Name: "new name", Description: "now described"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "new name" || updated.Description != "now described" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	if !failure.IsKind(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound failure", err)
	}
}

func TestMapping_RoundTrip(t *testing.T) {
	p := Project{
		ID:              "p1",
		Name:            "n",
		Description:     "d",
		Status:          "active",
		Color:           "#fff",
		ParentProjectID: "p0",
		Tags:            []string{"a"},
		CreatedAt:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	back := toEntity(fromEntity(p))
	if back.ID != p.ID || back.Name != p.Name || back.Status != p.Status ||
		back.Color != p.Color || back.ParentProjectID != p.ParentProjectID {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if len(back.Tags) != 1 || !back.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("round trip = %+v", back)
	}
}
