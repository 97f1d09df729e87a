package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0", "0", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, out string }{
		{"1.005", "1.01"}, // half-up
		{"1.004", "1"},
		{"60.305", "60.31"},
		{"-1.005", "-1.01"},
	}
	for _, tc := range cases {
		if got := Round2(dec(tc.in)); !got.Equal(dec(tc.out)) {
			t.Fatalf("%s expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(dec("5.5")); got != "5.50" {
		t.Fatalf("expected 5.50, got %s", got)
	}
	if got := FormatAmount(dec("0")); got != "0.00" {
		t.Fatalf("expected 0.00, got %s", got)
	}
}

func TestSumAmounts(t *testing.T) {
	got := SumAmounts(dec("0.1"), dec("0.2"), dec("0.3"))
	if !got.Equal(dec("0.6")) {
		t.Fatalf("expected 0.6, got %s", got)
	}
}
