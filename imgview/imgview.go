// Package imgview renders a document's lead image as truecolor
// half-block glyph lines for the terminal.
package imgview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Lines decodes image data and renders it as ANSI half-block lines,
// maxWidth columns wide. Each output row covers two pixel rows using
// the upper-half-block glyph with foreground and background colors.
func Lines(data []byte, maxWidth int) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if maxWidth < 1 {
		maxWidth = 1
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// Terminal cells are roughly twice as tall as wide, and each cell
	// holds two pixel rows, so the target keeps the source aspect.
	width := maxWidth
	height := srcH * width / srcW
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}

	at := func(x, y int) (r, g, b uint32) {
		sx := bounds.Min.X + x*srcW/width
		sy := bounds.Min.Y + y*srcH/height
		r16, g16, b16, _ := img.At(sx, sy).RGBA()
		return r16 >> 8, g16 >> 8, b16 >> 8
	}

	var lines []string
	for y := 0; y < height; y += 2 {
		var sb bytes.Buffer
		for x := 0; x < width; x++ {
			tr, tg, tb := at(x, y)
			br, bg, bb := at(x, y+1)
			fmt.Fprintf(&sb, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
				tr, tg, tb, br, bg, bb)
		}
		sb.WriteString("\033[0m")
		lines = append(lines, sb.String())
	}
	return lines, nil
}
