package handlers

import (
	"testing"
	"time"

	"bookstore/internal/models"
)

func TestPublishStampSetOnce(t *testing.T) {
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	stamp := publishStampFor(nil, models.FatwahStatusPublished, models.FatwahStatusPublished, first)
	if stamp == nil || !stamp.Equal(first) {
		t.Fatalf("expected first publish to stamp %v, got %v", first, stamp)
	}

	// re-publishing must not move the timestamp
	stamp = publishStampFor(stamp, models.FatwahStatusPublished, models.FatwahStatusPublished, second)
	if stamp == nil || !stamp.Equal(first) {
		t.Fatalf("expected timestamp to stay %v, got %v", first, stamp)
	}

	// moving back to draft keeps the original stamp
	stamp = publishStampFor(stamp, models.FatwahStatusDraft, models.FatwahStatusPublished, second)
	if stamp == nil || !stamp.Equal(first) {
		t.Fatalf("expected timestamp to survive unpublish, got %v", stamp)
	}
}

func TestPublishStampNotSetForDraft(t *testing.T) {
	now := time.Now()
	if stamp := publishStampFor(nil, models.ArticleStatusDraft, models.ArticleStatusPublished, now); stamp != nil {
		t.Fatalf("expected no stamp for draft, got %v", stamp)
	}
}

func TestValidFatwahCategory(t *testing.T) {
	if !validFatwahCategory("Salah") {
		t.Fatal("expected category match to be case-insensitive")
	}
	if validFatwahCategory("astrology") {
		t.Fatal("expected unknown category to be rejected")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Virtues of Ramadan":  "the-virtues-of-ramadan",
		"  Zakah: Q&A (Part 2) ":  "zakah-q-a-part-2",
		"---":                     "",
		"Sunnah   of   the  Eid!": "sunnah-of-the-eid",
	}
	for input, expected := range cases {
		if got := slugify(input); got != expected {
			t.Fatalf("slugify(%q) = %q, expected %q", input, got, expected)
		}
	}
}
