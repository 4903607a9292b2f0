package imgview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 30, A: 255})
		}
	}

	lines, err := Lines(encodePNG(t, img), 8)
	if err != nil {
		t.Fatal(err)
	}
	// 8 columns on a square source is 8 pixel rows, two per line.
	if len(lines) != 4 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, line := range lines {
		if strings.Count(line, "▀") != 8 {
			t.Errorf("wrong cell count in %q", line)
		}
		if !strings.Contains(line, "\033[38;2;200;10;30m") {
			t.Errorf("foreground color missing in %q", line)
		}
		if !strings.HasSuffix(line, "\033[0m") {
			t.Errorf("line not reset: %q", line)
		}
	}
}

func TestLinesTinyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{A: 255})

	lines, err := Lines(encodePNG(t, img), 40)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) == 0 {
		t.Fatal("no output for a valid image")
	}
}

func TestLinesBadData(t *testing.T) {
	if _, err := Lines([]byte("definitely not an image"), 40); err == nil {
		t.Error("expected decode error")
	}
}
