package service

import (
	"testing"
	"time"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.c", true},
		{"amy@x.com", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"a@b", false},
		{"@b.c", false},
		{"a b@c.d", false},
		{"a@@b.c", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.in); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate_MissingFieldMessage(t *testing.T) {
	in := validInput()
	in.LastName = ""
	err := Validate(in)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "all required fields must be filled in (missing lastName)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestNormalize_TrimsWhitespaceOnlyToEmpty(t *testing.T) {
	in := validInput()
	in.FirstName = " \t\n"
	if err := Validate(normalize(in)); err == nil {
		t.Error("expected whitespace-only first name to be rejected")
	}
}

func TestIDGenerator_StrictlyIncreasing(t *testing.T) {
	var g IDGenerator
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := g.Next(t0)
	if first != t0.UnixMilli() {
		t.Errorf("expected id from clock, got %d", first)
	}
	second := g.Next(t0)
	if second != first+1 {
		t.Errorf("expected bump to %d, got %d", first+1, second)
	}
	// clock went backwards
	third := g.Next(t0.Add(-time.Second))
	if third != second+1 {
		t.Errorf("expected %d after clock skew, got %d", second+1, third)
	}
	later := t0.Add(time.Minute)
	if got := g.Next(later); got != later.UnixMilli() {
		t.Errorf("expected clock id once it passes last, got %d", got)
	}
}

func TestComputeStats(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	messages := []*model.ContactMessage{
		{ID: 1, Timestamp: ts, Subject: "pricing", Newsletter: true, Read: true},
		{ID: 2, Timestamp: ts, Subject: "pricing"},
		{ID: 3, Timestamp: ts.AddDate(0, 1, 0), Subject: "support", Newsletter: true},
	}

	stats := ComputeStats(messages, time.UTC)
	if stats.Total != 3 || stats.Read != 1 || stats.Unread != 2 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if stats.Read+stats.Unread != stats.Total {
		t.Error("read + unread must equal total")
	}
	if stats.BySubject["pricing"] != 2 || stats.BySubject["support"] != 1 {
		t.Errorf("unexpected bySubject %v", stats.BySubject)
	}
	if stats.ByMonth["3/2024"] != 2 || stats.ByMonth["4/2024"] != 1 {
		t.Errorf("unexpected byMonth %v", stats.ByMonth)
	}
	if stats.NewsletterSubscribers != 2 {
		t.Errorf("expected 2 subscribers, got %d", stats.NewsletterSubscribers)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, time.UTC)
	if stats.Total != 0 || len(stats.BySubject) != 0 || len(stats.ByMonth) != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if stats.BySubject == nil || stats.ByMonth == nil {
		t.Error("maps must be non-nil so they encode as {}")
	}
}

func TestComputeStats_MonthUsesLocation(t *testing.T) {
	// 23:30 UTC on Jan 31 is already February east of UTC.
	ts := time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+1", 3600)
	stats := ComputeStats([]*model.ContactMessage{{ID: 1, Timestamp: ts, Subject: "x"}}, loc)
	if stats.ByMonth["2/2024"] != 1 {
		t.Errorf("expected month bucketed in location, got %v", stats.ByMonth)
	}
}
