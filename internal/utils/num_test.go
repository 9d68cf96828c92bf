package utils

import "testing"

func TestParseFloat(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "plain", input: "42", want: 42, ok: true},
		{name: "decimal comma", input: "1,5", want: 1.5, ok: true},
		{name: "decimal dot", input: "1.5", want: 1.5, ok: true},
		{name: "thousands with nbsp", input: "1 234,50", want: 1234.5, ok: true},
		{name: "spaces and tabs", input: " 197 ,00\t", want: 197, ok: true},
		{name: "currency noise", input: "£12.50", want: 12.5, ok: true},
		{name: "negative", input: "-3.2", want: -3.2, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "n/a", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFloat(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	d, ok := ParseDecimal("1 234,56")
	if !ok {
		t.Fatal("parse failed")
	}
	if d.String() != "1234.56" {
		t.Fatalf("got %s, want 1234.56", d)
	}

	if _, ok := ParseDecimal("—"); ok {
		t.Fatal("dash parsed as number")
	}
}
