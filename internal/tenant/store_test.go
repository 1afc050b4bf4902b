package tenant

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), PolicyDefaults{})
}

func TestStoreGetReturnsDefaultsWhenMissing(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Get(context.Background(), "org-absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.OrgID != "org-absent" {
		t.Fatalf("OrgID = %q", settings.OrgID)
	}
	if settings.WeekdayOpen != "09:00" {
		t.Fatalf("expected default settings, got %+v", settings)
	}
}

func TestStoreAppliesOperatorDefaults(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), PolicyDefaults{
		SlotDurationMinutes:    45,
		MaxAdvanceBookingDays:  30,
		MinAdvanceBookingHours: 4,
		MaxCancellationHours:   12,
	})

	settings, err := store.Get(context.Background(), "org-fresh")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.DefaultSlotDurationMinutes != 45 {
		t.Fatalf("slot duration = %d, want 45", settings.DefaultSlotDurationMinutes)
	}
	if settings.MaxAdvanceBookingDays != 30 || settings.MinAdvanceBookingHours != 4 {
		t.Fatalf("advance policy not applied: %+v", settings)
	}
	if settings.MaxCancellationHours != 12 {
		t.Fatalf("cancellation hours = %d, want 12", settings.MaxCancellationHours)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := DefaultSettings("org-1")
	settings.Name = "Northside Clinic"
	settings.WeekendOpen = "09:00"
	settings.WeekendClose = "12:00"
	settings.AllowWeekendBooking = true

	if err := store.Set(ctx, settings); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "org-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Northside Clinic" {
		t.Fatalf("Name = %q", got.Name)
	}
	if !got.AllowWeekendBooking || got.WeekendOpen != "09:00" || got.WeekendClose != "12:00" {
		t.Fatalf("weekend settings lost: %+v", got)
	}
}

func TestStoreIsolatesOrgs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := DefaultSettings("org-a")
	a.Name = "Clinic A"
	if err := store.Set(ctx, a); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b, err := store.Get(ctx, "org-b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Name == "Clinic A" {
		t.Fatal("org-b should not see org-a settings")
	}
}
