package news

import (
	"testing"
	"time"
)

func TestDedupe(t *testing.T) {
	items := []Item{
		{Title: "A", Link: "https://example.com/a"},
		{Title: "B", Link: "https://example.com/b"},
		{Title: "A again", Link: "https://example.com/a"},
	}
	got := dedupe(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestFilterWindow(t *testing.T) {
	now := time.Now()
	cutoff := now.Add(-24 * time.Hour)
	items := []Item{
		{Title: "fresh", Published: now.Add(-1 * time.Hour)},
		{Title: "stale", Published: now.Add(-48 * time.Hour)},
		{Title: "undated"},
	}
	got := filterWindow(items, cutoff)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	for _, it := range got {
		if it.Title == "stale" {
			t.Error("stale item survived the window filter")
		}
	}
}

func TestRankOrdersByQualityAndBounds(t *testing.T) {
	now := time.Now()
	long := "word "
	for i := 0; i < 6; i++ {
		long += long
	}
	items := []Item{
		{Title: "old shallow", Published: now.Add(-20 * time.Hour), Snippet: "short"},
		{Title: "fresh deep", Published: now.Add(-1 * time.Hour), Snippet: long},
		{Title: "fresh shallow", Published: now.Add(-1 * time.Hour), Snippet: "short"},
	}
	got := rank(items, now, 2)
	if len(got) != 2 {
		t.Fatalf("expected bound of 2, got %d", len(got))
	}
	if got[0].Title != "fresh deep" {
		t.Errorf("expected fresh deep first, got %q", got[0].Title)
	}
	if got[0].Quality <= got[1].Quality {
		t.Errorf("expected descending quality: %v >= %v", got[0].Quality, got[1].Quality)
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Now()
	fresh := recencyScore(now, now)
	if fresh < 0.99 {
		t.Errorf("expected ~1.0 at publish, got %v", fresh)
	}
	half := recencyScore(now.Add(-12*time.Hour), now)
	if half < 0.45 || half > 0.55 {
		t.Errorf("expected ~0.5 at 12h, got %v", half)
	}
	if got := recencyScore(time.Time{}, now); got != 0.5 {
		t.Errorf("expected 0.5 for undated, got %v", got)
	}
	if future := recencyScore(now.Add(time.Hour), now); future < 0.99 {
		t.Errorf("future publish time should clamp to 1.0, got %v", future)
	}
}

func TestMatchesTopic(t *testing.T) {
	tests := []struct {
		title, snippet, topic string
		want                  bool
	}{
		{"Go 1.23 released", "", "go", true},
		{"Markets rally", "tech stocks up", "Tech", true},
		{"Weather report", "sunny all week", "Technology", false},
		{"AI breakthrough in health", "", "Health News", true},
	}
	for _, tt := range tests {
		it := Item{Title: tt.title, Snippet: tt.snippet}
		if got := matchesTopic(it, tt.topic); got != tt.want {
			t.Errorf("matchesTopic(%q, %q) = %v, want %v", tt.title, tt.topic, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.input); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestItemIDStable(t *testing.T) {
	a := itemID("https://example.com/a")
	b := itemID("https://example.com/b")
	if a == b {
		t.Error("different links should produce different IDs")
	}
	if a != itemID("https://example.com/a") {
		t.Error("same link should produce the same ID")
	}
	if len(a) != 32 {
		t.Errorf("expected 32-char hex string, got %d chars", len(a))
	}
}
