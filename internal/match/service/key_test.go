package service

import (
	"testing"

	"pricematch-service/internal/match/model"
)

func canonicalize(ex *Extractor, text string) string {
	return BuildKey(ex.Extract(normalize(text)))
}

// Два разных описания одного физического предмета обязаны сойтись
// в один канонический ключ — на этом держится весь pass-1.
func TestCanonicalKeyCollision(t *testing.T) {
	ex := NewExtractor(model.Default())

	a := canonicalize(ex, "Tray Elbow 90° 200×50 (Galv) - ProjectA")
	b := canonicalize(ex, "Ladder Tray Bend 90 deg 200x50 GALV - ProjectB v2")

	if a != b {
		t.Fatalf("keys differ:\n a=%q\n b=%q", a, b)
	}
	want := "width=200|height=50|angle=90|material=galv|unit=ea"
	if a != want {
		t.Fatalf("key = %q, want %q", a, want)
	}
}

func TestBuildKey(t *testing.T) {
	cases := []struct {
		name  string
		attrs model.AttributeSet
		want  string
	}{
		{
			name:  "all fields fixed order",
			attrs: model.AttributeSet{WidthMM: ip(200), HeightMM: ip(50), AngleDeg: ip(45), Material: "ss", Unit: "m"},
			want:  "width=200|height=50|angle=45|material=ss|unit=m",
		},
		{
			name:  "absent fields omitted",
			attrs: model.AttributeSet{AngleDeg: ip(90), Unit: "ea"},
			want:  "angle=90|unit=ea",
		},
		{
			name:  "degenerate",
			attrs: model.AttributeSet{},
			want:  "",
		},
		{
			name:  "unit only",
			attrs: model.AttributeSet{Unit: "ea"},
			want:  "unit=ea",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildKey(tc.attrs); got != tc.want {
				t.Fatalf("BuildKey = %q, want %q", got, tc.want)
			}
		})
	}
}

// Ключ зависит только от извлечённых значений, не от порядка слов в тексте.
func TestBuildKeyOrderIndependent(t *testing.T) {
	ex := NewExtractor(model.Default())
	a := canonicalize(ex, "Galv tray elbow 200x50 90")
	b := canonicalize(ex, "90 elbow 200x50 tray galv")
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}
