package main

import (
	"reflect"
	"testing"

	"github.com/openticket/otq/internal/api"
)

func TestParseSeatIDs(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      string
		want    []int64
		wantErr bool
	}{
		{"Single", "7", []int64{7}, false},
		{"Multiple", "1,2,3", []int64{1, 2, 3}, false},
		{"Spaces", " 1 , 2 ", []int64{1, 2}, false},
		{"TrailingComma", "1,2,", []int64{1, 2}, false},
		{"Duplicate", "1,1", nil, true},
		{"Zero", "0", nil, true},
		{"Negative", "-3", nil, true},
		{"Garbage", "a,b", nil, true},
		{"Empty", "", nil, true},
		{"OnlyCommas", ",,", nil, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSeatIDs(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseSeatIDs(%q) expected error, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSeatIDs(%q): %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseSeatIDs(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSeatSelectionTotal(t *testing.T) {
	seats := []api.Seat{
		{ID: 1, SeatNumber: "A1", Price: 150000, Status: api.SeatAvailable},
		{ID: 2, SeatNumber: "A2", Price: 150000, Status: api.SeatAvailable},
		{ID: 3, SeatNumber: "B1", Price: 120000, Status: api.SeatSold},
	}

	total, err := seatSelectionTotal(seats, []int64{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 300000 {
		t.Errorf("total = %d, want 300000", total)
	}

	if _, err := seatSelectionTotal(seats, []int64{3}); err == nil {
		t.Error("expected error for sold seat")
	}
	if _, err := seatSelectionTotal(seats, []int64{99}); err == nil {
		t.Error("expected error for unknown seat")
	}
}

func TestFormatPrice(t *testing.T) {
	for _, tc := range []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{150000, "150,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	} {
		if got := formatPrice(tc.in); got != tc.want {
			t.Errorf("formatPrice(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
