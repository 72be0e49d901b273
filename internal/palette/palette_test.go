package palette

import "testing"

func TestColorFor_Base(t *testing.T) {
	for i, want := range Base {
		if got := ColorFor(i); got != want {
			t.Errorf("ColorFor(%d) = %q, want %q", i, got, want)
		}
	}
	if ColorFor(0) != "#012a4a" || ColorFor(9) != "#a9d6e5" {
		t.Error("palette endpoints changed")
	}
}

func TestColorFor_Synthesized(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{10, "hsl(200, 60%, 10%)"},
		{11, "hsl(200, 60%, 20%)"},
		{19, "hsl(200, 60%, 100%)"},
		{25, "hsl(200, 60%, 160%)"},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.index); got != tt.want {
			t.Errorf("ColorFor(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestColorFor_Deterministic(t *testing.T) {
	for i := range 40 {
		if ColorFor(i) != ColorFor(i) {
			t.Fatalf("ColorFor(%d) not deterministic", i)
		}
	}
}

func TestColorFor_NegativeIndex(t *testing.T) {
	if got := ColorFor(-3); got != Base[0] {
		t.Errorf("ColorFor(-3) = %q, want %q", got, Base[0])
	}
}

func TestHex(t *testing.T) {
	if got := Hex(3); got != Base[3] {
		t.Errorf("Hex(3) = %q, want %q", got, Base[3])
	}
	// Clamped at full lightness.
	if got := Hex(19); got != "#ffffff" {
		t.Errorf("Hex(19) = %q, want #ffffff", got)
	}
	if got := Hex(30); got != "#ffffff" {
		t.Errorf("Hex(30) = %q, want #ffffff", got)
	}
	for i := 10; i < 19; i++ {
		h := Hex(i)
		if len(h) != 7 || h[0] != '#' {
			t.Errorf("Hex(%d) = %q, want #rrggbb", i, h)
		}
	}
}
