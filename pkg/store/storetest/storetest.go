// Package storetest checks that a catalog.Store behaves like the others.
//
// Every store implementation runs the same suite:
//
//	func TestStore(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) catalog.Store { return open(t) })
//	}
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/header"
)

// Run runs the store suite. open must return an empty store; Run closes it.
func Run(t *testing.T, open func(t *testing.T) catalog.Store) {
	t.Helper()
	tests := []struct {
		name string
		fn   func(t *testing.T, s catalog.Store)
	}{
		{"PutGet", testPutGet},
		{"GetMissing", testGetMissing},
		{"GetBySlug", testGetBySlug},
		{"SlugTaken", testSlugTaken},
		{"Replace", testReplace},
		{"List", testList},
		{"CopiesOnWrite", testCopiesOnWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func fixture(name string) *catalog.Catalog {
	c := catalog.New(name)
	c.LogoURL = "https://cdn.example.com/logo.png"
	c.LogoPosition = header.LogoHeaderCenter
	c.LogoSize = header.SizeXLarge
	c.TitlePosition = header.TitleCenter
	c.CategoryOrder = []string{"Elbise"}
	c.Products = []catalog.Product{
		{ID: "p1", Name: "Keten Elbise", Price: 1299.9, Category: "Elbise",
			Attributes: []catalog.Attribute{{Name: "currency", Value: "EUR"}}},
	}
	c.CreatedAt = c.CreatedAt.Truncate(time.Millisecond)
	c.UpdatedAt = c.UpdatedAt.Truncate(time.Millisecond)
	return c
}

func testPutGet(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	c := fixture("Yaz Koleksiyonu")
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != c.Name || got.ShareSlug != c.ShareSlug {
		t.Errorf("Get = %q/%q, want %q/%q", got.Name, got.ShareSlug, c.Name, c.ShareSlug)
	}
	if got.LogoPosition != header.LogoHeaderCenter || got.LogoSize != header.SizeXLarge {
		t.Errorf("header fields = %q/%q", got.LogoPosition, got.LogoSize)
	}
	if len(got.Products) != 1 || got.Products[0].Currency() != "EUR" {
		t.Errorf("products = %+v", got.Products)
	}
	if !got.UpdatedAt.Equal(c.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, c.UpdatedAt)
	}
}

func testGetMissing(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	if _, err := s.Get(ctx, "3f2b8c9e-0000-4b6e-9a7f-2c5d8e1f0a3b"); !catalog.IsNotFound(err) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetBySlug(ctx, "missing"); !catalog.IsNotFound(err) {
		t.Errorf("GetBySlug(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetBySlug(ctx, ""); !catalog.IsNotFound(err) {
		t.Errorf("GetBySlug(\"\") error = %v, want ErrNotFound", err)
	}
}

func testGetBySlug(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	a, b := fixture("Yaz"), fixture("Kış")
	b.ShareSlug = ""
	for _, c := range []*catalog.Catalog{a, b} {
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	got, err := s.GetBySlug(ctx, "yaz")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("GetBySlug(yaz).ID = %q, want %q", got.ID, a.ID)
	}
}

func testSlugTaken(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	a, b := fixture("Yaz"), fixture("Yaz")
	if err := s.Put(ctx, a); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, b); !errors.Is(err, catalog.ErrSlugTaken) {
		t.Errorf("Put(duplicate slug) error = %v, want ErrSlugTaken", err)
	}
	// Two catalogs without a slug never collide.
	a2, b2 := fixture("A"), fixture("B")
	a2.ShareSlug, b2.ShareSlug = "", ""
	if err := s.Put(ctx, a2); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, b2); err != nil {
		t.Errorf("Put(second empty slug) error = %v", err)
	}
}

func testReplace(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	c := fixture("Yaz")
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.Name = "Yaz 2026"
	c.TitlePosition = header.TitleRight
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("Put(replace): %v", err)
	}
	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Yaz 2026" || got.TitlePosition != header.TitleRight {
		t.Errorf("Get after replace = %q/%q", got.Name, got.TitlePosition)
	}
	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(List) = %d after replace, want 1", len(all))
	}
}

func testList(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"Bir", "İki", "Üç"}
	for i, name := range names {
		c := fixture(name)
		c.UpdatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(all))
	}
	for i, want := range []string{"Üç", "İki", "Bir"} {
		if all[i].Name != want {
			t.Errorf("List[%d] = %q, want %q", i, all[i].Name, want)
		}
	}
}

func testCopiesOnWrite(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	c := fixture("Yaz")
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.Products[0].Name = "mutated"
	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Products[0].Name != "Keten Elbise" {
		t.Error("store shares memory with the caller")
	}
}
