package core

import "testing"

func TestCentAmountWithDigit(t *testing.T) {
	cases := []struct {
		start CentAmount
		digit int
		want  CentAmount
	}{
		{0, 0, 0},
		{0, 7, 7},
		{7, 5, 75},
		{350, 0, 3500},
		{9999, 9, 99999},
		{99999, 0, 99999}, // would exceed the cap, no-op
		{10000, 0, 10000}, // 100000 > cap
		{12, -1, 12},      // not a digit
		{12, 10, 12},
	}
	for i, tc := range cases {
		if got := tc.start.WithDigit(tc.digit); got != tc.want {
			t.Fatalf("case %d: %d.WithDigit(%d) = %d, want %d", i, tc.start, tc.digit, got, tc.want)
		}
	}
}

func TestCentAmountNeverExceedsBound(t *testing.T) {
	var c CentAmount
	for _, d := range []int{9, 9, 9, 9, 9, 9, 9, 9, 9, 9} {
		c = c.WithDigit(d)
		if c > MaxEntryCents {
			t.Fatalf("accumulator exceeded bound: %d", c)
		}
	}
	if c != 99999 {
		t.Fatalf("expected saturation at 99999, got %d", c)
	}
}

func TestCentAmountBackspaceInvertsDigit(t *testing.T) {
	for _, v := range []CentAmount{0, 1, 42, 350, 9999} {
		for d := 0; d <= 9; d++ {
			if v*10+CentAmount(d) > MaxEntryCents {
				continue
			}
			if got := v.WithDigit(d).WithBackspace(); got != v {
				t.Fatalf("backspace after digit %d on %d: got %d", d, v, got)
			}
		}
	}
	if got := CentAmount(0).WithBackspace(); got != 0 {
		t.Fatalf("backspace on empty keypad: got %d", got)
	}
}

func TestApplyKey(t *testing.T) {
	cases := []struct {
		start CentAmount
		key   string
		want  CentAmount
		ok    bool
	}{
		{0, "3", 3, true},
		{3, "5", 35, true},
		{35, "backspace", 3, true},
		{35, "Delete", 3, true},
		{35, "Enter", 35, false},
		{35, "a", 35, false},
		{35, "", 35, false},
	}
	for i, tc := range cases {
		got, ok := ApplyKey(tc.start, tc.key)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("case %d: ApplyKey(%d, %q) = (%d, %v), want (%d, %v)",
				i, tc.start, tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"3.50", 350, true},
		{"3,50", 350, true},
		{"0.01", 1, true},
		{"0", 0, true}, // free catalog items are allowed
		{"1.005", 101, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{350, "3.50"},
		{99999, "999.99"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
