package service

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dimension glyph", input: "Tray 200×50", want: "tray 200 x 50"},
		{name: "dimension star", input: "Tray 200 * 50", want: "tray 200 x 50"},
		{name: "dimension word by", input: "Tray 200 by 50", want: "tray 200 x 50"},
		{name: "compact x", input: "Tray 200x50", want: "tray 200 x 50"},
		{name: "degree sign dropped", input: "Bend 90°", want: "bend 90"},
		{name: "project token stripped", input: "Tray 100x50 ProjectA", want: "tray 100 x 50"},
		{name: "rev token stripped", input: "Tray rev2 100x50", want: "tray 100 x 50"},
		{name: "version token stripped", input: "Tray 100x50 v3", want: "tray 100 x 50"},
		{name: "punctuation collapsed", input: "Tray,  (Galv) - 100x50", want: "tray galv 100 x 50"},
		{name: "diacritics folded", input: "Galvanisé Tray 100×50", want: "galvanise tray 100 x 50"},
		{name: "empty", input: "", want: ""},
		{name: "garbage survives", input: "§§§ ???", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalize(tc.input)
			if got != tc.want {
				t.Fatalf("normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Tray Elbow 90° 200×50 (Galv) - ProjectA",
		"Ladder Tray Bend 90 deg 200x50 GALV - ProjectB v2",
		"Cable tray 300 by 75 stainless per m",
		"",
		"plain words only",
	}
	for _, in := range inputs {
		once := normalize(in)
		twice := normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
