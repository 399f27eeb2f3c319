package models

import (
	"testing"
	"time"
)

func TestIsPremiumAt(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name   string
		isPaid bool
		status string
		until  *time.Time
		want   bool
	}{
		{"all three hold", true, "active", &future, true},
		{"not paid", false, "active", &future, false},
		{"status not active", true, "expired", &future, false},
		{"status empty", true, "", &future, false},
		{"expired", true, "active", &past, false},
		{"no expiry set", true, "active", nil, false},
		{"nothing set", false, "", nil, false},
	}
	for _, c := range cases {
		b := Business{IsPaid: c.isPaid, PremiumStatus: c.status, PremiumUntil: c.until}
		if got := b.IsPremiumAt(now); got != c.want {
			t.Errorf("%s: IsPremiumAt = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHasLocation(t *testing.T) {
	lat, lng := 28.6139, 77.2090
	with := Business{Latitude: &lat, Longitude: &lng}
	if !with.HasLocation() {
		t.Error("business with coordinates must report HasLocation")
	}
	without := Business{Latitude: &lat}
	if without.HasLocation() {
		t.Error("business missing a coordinate must not report HasLocation")
	}
}

func TestFullAddress(t *testing.T) {
	u := User{House: "12A", Street: "MG Road", City: "Pune", Pincode: "411001"}
	want := "12A, MG Road, Pune, 411001"
	if got := u.FullAddress(); got != want {
		t.Errorf("FullAddress = %q, want %q", got, want)
	}
	empty := User{}
	if got := empty.FullAddress(); got != "" {
		t.Errorf("empty profile should produce empty address, got %q", got)
	}
}
