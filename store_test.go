package partyhub

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_partyhub.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCreation() Creation {
	return Creation{
		Headline:   "Launch Day",
		Body:       "Doors open at eight.",
		Hashtags:   []string{"#PartyHub", "#Launch"},
		BrandColor: "#6366F1",
		BrandTone:  BrandTones[0],
		Template:   TemplateStandard,
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetCreation(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.SaveCreation(testCreation())
	if err != nil {
		t.Fatalf("SaveCreation: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected derived ID")
	}
	if saved.CreatedAt == "" {
		t.Fatalf("expected derived CreatedAt")
	}

	got, err := s.GetCreation(saved.ID)
	if err != nil {
		t.Fatalf("GetCreation: %v", err)
	}
	if got.Headline != "Launch Day" || got.BrandColor != "#6366F1" {
		t.Errorf("creation = %+v", got)
	}
	if !reflect.DeepEqual(got.Hashtags, []string{"#PartyHub", "#Launch"}) {
		t.Errorf("hashtags = %v", got.Hashtags)
	}
	if got.Template != TemplateStandard {
		t.Errorf("template = %q", got.Template)
	}
}

func TestGetCreationNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetCreation("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCreationsNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	older := testCreation()
	older.Headline = "Older"
	older.CreatedAt = time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	if _, err := s.SaveCreation(older); err != nil {
		t.Fatalf("SaveCreation: %v", err)
	}

	newer := testCreation()
	newer.Headline = "Newer"
	if _, err := s.SaveCreation(newer); err != nil {
		t.Fatalf("SaveCreation: %v", err)
	}

	creations, err := s.ListCreations()
	if err != nil {
		t.Fatalf("ListCreations: %v", err)
	}
	if len(creations) != 2 {
		t.Fatalf("expected 2 creations, got %d", len(creations))
	}
	if creations[0].Headline != "Newer" {
		t.Errorf("first creation = %q, want newest", creations[0].Headline)
	}
}

func TestDeleteCreation(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.SaveCreation(testCreation())
	if err != nil {
		t.Fatalf("SaveCreation: %v", err)
	}
	if err := s.DeleteCreation(saved.ID); err != nil {
		t.Fatalf("DeleteCreation: %v", err)
	}
	if _, err := s.GetCreation(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSaveCreationEmptyHeadlineDerivesID(t *testing.T) {
	s := setupTestStore(t)
	c := testCreation()
	c.Headline = "!!!"
	saved, err := s.SaveCreation(c)
	if err != nil {
		t.Fatalf("SaveCreation: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected fallback ID for unsluggable headline")
	}
}

func TestParseTagString(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{",#a,#b,", []string{"#a", "#b"}},
		{"", nil},
		{",,", nil},
		{"#solo", []string{"#solo"}},
	}
	for _, tt := range tests {
		if got := ParseTagString(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("ParseTagString(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestGalleryCacheInvalidate(t *testing.T) {
	s := setupTestStore(t)
	cache := NewGalleryCache(s, time.Minute)

	creations, err := cache.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(creations) != 0 {
		t.Fatalf("expected empty gallery, got %d", len(creations))
	}

	if _, err := s.SaveCreation(testCreation()); err != nil {
		t.Fatalf("SaveCreation: %v", err)
	}

	// Still cached.
	creations, err = cache.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(creations) != 0 {
		t.Fatalf("expected cached empty list, got %d", len(creations))
	}

	cache.Invalidate()
	creations, err = cache.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(creations) != 1 {
		t.Fatalf("expected reload after invalidate, got %d", len(creations))
	}
}
