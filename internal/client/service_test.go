package client

import (
	"context"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(store, 30)
	return svc, store
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	c, err := svc.Create(context.Background(), CreateInput{
		Code:  "Acme",
		Name:  "  Acme Co  ",
		Email: "owner@acme.test",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if c.Status != StatusActive {
		t.Errorf("status = %s, want active", c.Status)
	}
	if c.Code != "acme" {
		t.Errorf("code = %q, want lowercased %q", c.Code, "acme")
	}
	if c.Name != "Acme Co" {
		t.Errorf("name = %q, want trimmed", c.Name)
	}
	if !c.StartedAt.Equal(now) {
		t.Errorf("startedAt = %v, want %v", c.StartedAt, now)
	}
	wantDue := now.AddDate(0, 0, 30)
	if c.DueAt == nil || !c.DueAt.Equal(wantDue) {
		t.Errorf("dueAt = %v, want %v", c.DueAt, wantDue)
	}
	if c.PausedAt != nil || c.PauseReason != "" || c.LastReminderAt != nil {
		t.Error("reminder/pause fields must start null")
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Code: "acme", Name: "Acme", Email: "a@x.test"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, CreateInput{Code: "acme", Name: "Other", Email: "b@x.test"})
	if err != ErrCodeTaken {
		t.Errorf("err = %v, want ErrCodeTaken", err)
	}
}

func TestCreateWithDerivedCodeDisambiguates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateWithDerivedCode(ctx, CreateInput{Name: "Acme!", Email: "a@x.test"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Code != "acme" {
		t.Errorf("first code = %q, want acme", first.Code)
	}

	// Same derived base collides; the next approval deterministically
	// yields acme2, then acme3.
	second, err := svc.CreateWithDerivedCode(ctx, CreateInput{Name: "ACME", Email: "b@x.test"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Code != "acme2" {
		t.Errorf("second code = %q, want acme2", second.Code)
	}

	third, err := svc.CreateWithDerivedCode(ctx, CreateInput{Name: "A.c.m.e", Email: "c@x.test"})
	if err != nil {
		t.Fatalf("third: %v", err)
	}
	if third.Code != "acme3" {
		t.Errorf("third code = %q, want acme3", third.Code)
	}
}

func TestGetByCodeIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Code: "acme", Name: "Acme", Email: "a@x.test"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c, err := svc.GetByCode(ctx, "ACME")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if c.Code != "acme" {
		t.Errorf("code = %q, want acme", c.Code)
	}
}

func TestCountByStatus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for _, code := range []string{"one", "two", "three"} {
		if _, err := svc.Create(ctx, CreateInput{Code: code, Name: code, Email: code + "@x.test"}); err != nil {
			t.Fatalf("create %s: %v", code, err)
		}
	}
	c, _ := store.GetByCode(ctx, "three")
	c.Status = StatusPaused
	if err := store.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}

	counts, err := svc.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[StatusActive] != 2 || counts[StatusPaused] != 1 {
		t.Errorf("counts = %v, want active:2 paused:1", counts)
	}
}

func TestUpdateBookingLink(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Code: "acme", Name: "Acme", Email: "a@x.test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c, err := svc.UpdateBookingLink(ctx, created.ID, "https://cal.example/acme")
	if err != nil {
		t.Fatalf("update link: %v", err)
	}
	if c.BookingLink != "https://cal.example/acme" {
		t.Errorf("bookingLink = %q", c.BookingLink)
	}

	c, err = svc.UpdateBookingLink(ctx, created.ID, "")
	if err != nil {
		t.Fatalf("clear link: %v", err)
	}
	if c.BookingLink != "" {
		t.Errorf("bookingLink = %q, want cleared", c.BookingLink)
	}
}
