package shared

import (
	"testing"
	"time"
)

func TestPeriodEnd(t *testing.T) {
	cases := []struct {
		year, period int
		want         time.Time
	}{
		{2024, 0, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
		{2024, 1, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)},
		{2024, 2, time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)},
		{2024, 3, time.Date(2024, 9, 30, 23, 59, 59, 0, time.UTC)},
		{2024, 4, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := PeriodEnd(tc.year, tc.period)
		if err != nil {
			t.Fatalf("PeriodEnd(%d, %d): %v", tc.year, tc.period, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("PeriodEnd(%d, %d) = %v, want %v", tc.year, tc.period, got, tc.want)
		}
	}
}

func TestPeriodEndInvalid(t *testing.T) {
	for _, period := range []int{-1, 5, 12} {
		if _, err := PeriodEnd(2024, period); err == nil {
			t.Fatalf("PeriodEnd(2024, %d): expected error", period)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	got, err := PeriodStart(2024, 3)
	if err != nil {
		t.Fatalf("PeriodStart: %v", err)
	}
	want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("PeriodStart(2024, 3) = %v, want %v", got, want)
	}
}

func TestMonthEndLeapFebruary(t *testing.T) {
	got := MonthEnd(2024, time.February)
	want := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("MonthEnd(2024, Feb) = %v, want %v", got, want)
	}
}
