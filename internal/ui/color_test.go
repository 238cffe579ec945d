package ui

import (
	"strings"
	"testing"
)

func TestRGBToHex(t *testing.T) {
	if got := RGBToHex([3]uint8{24, 188, 242}); got != "#18bcf2" {
		t.Fatalf("RGBToHex: got %q, want %q", got, "#18bcf2")
	}
	if got := RGBToHex([3]uint8{0, 0, 0}); got != "#000000" {
		t.Fatalf("RGBToHex: got %q, want %q", got, "#000000")
	}
	if got := RGBToHex([3]uint8{255, 255, 255}); got != "#ffffff" {
		t.Fatalf("RGBToHex: got %q, want %q", got, "#ffffff")
	}
}

func TestHexToRGB(t *testing.T) {
	rgb, err := HexToRGB("#18BCF2")
	if err != nil {
		t.Fatalf("HexToRGB: %v", err)
	}
	if rgb != [3]uint8{24, 188, 242} {
		t.Fatalf("HexToRGB: got %v, want [24 188 242]", rgb)
	}
}

func TestHexToRGBInvalid(t *testing.T) {
	for _, s := range []string{"", "18BCF2", "#18BCF", "#18BCF2A", "#GGHHII"} {
		if _, err := HexToRGB(s); err == nil {
			t.Errorf("HexToRGB(%q): expected error", s)
		}
	}
}

func TestColorRoundTrip(t *testing.T) {
	triples := [][3]uint8{
		{0, 0, 0}, {255, 255, 255}, {24, 188, 242}, {1, 2, 3}, {128, 0, 255},
	}
	for _, c := range triples {
		got, err := HexToRGB(RGBToHex(c))
		if err != nil {
			t.Fatalf("round trip %v: %v", c, err)
		}
		if got != c {
			t.Errorf("round trip: got %v, want %v", got, c)
		}
	}

	for _, h := range []string{"#18BCF2", "#ffffff", "#000000", "#AbCdEf"} {
		rgb, err := HexToRGB(h)
		if err != nil {
			t.Fatalf("HexToRGB(%q): %v", h, err)
		}
		if got := RGBToHex(rgb); got != strings.ToLower(h) {
			t.Errorf("round trip %q: got %q, want %q", h, got, strings.ToLower(h))
		}
	}
}

func TestIsHexColor(t *testing.T) {
	if !IsHexColor("#18BCF2") || !IsHexColor("#18bcf2") {
		t.Fatal("expected valid hex colors to pass")
	}
	if IsHexColor("18BCF2") || IsHexColor("#18BC") || IsHexColor("red") {
		t.Fatal("expected invalid hex colors to fail")
	}
}
