package tileset

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"strings"
)

// ColorsPerPalette is the color count of one 4bpp palette.
const ColorsPerPalette = 16

// LoadPalette reads a JASC-PAL palette file. Index zero is treated as
// transparent when tiles are rendered.
func LoadPalette(path string) (color.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	var header [3]string
	for i := range header {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: truncated palette %s", ErrFormat, path)
		}
		header[i] = strings.TrimSpace(scanner.Text())
	}
	if header[0] != "JASC-PAL" || header[1] != "0100" {
		return nil, fmt.Errorf("%w: %s is not a JASC-PAL palette", ErrFormat, path)
	}

	var count int
	if _, err := fmt.Sscanf(header[2], "%d", &count); err != nil || count <= 0 || count > 256 {
		return nil, fmt.Errorf("%w: bad color count %q in %s", ErrFormat, header[2], path)
	}

	pal := make(color.Palette, 0, count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: palette %s ends after %d of %d colors", ErrFormat, path, i, count)
		}
		var r, g, b int
		if _, err := fmt.Sscanf(strings.TrimSpace(scanner.Text()), "%d %d %d", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("%w: bad color line %d in %s", ErrFormat, i, path)
		}
		a := uint8(0xff)
		if i == 0 {
			a = 0
		}
		pal = append(pal, color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: a})
	}

	return pal, scanner.Err()
}

// GrayPalette returns a 16-step grayscale ramp used when no source
// palette is available, index zero transparent.
func GrayPalette() color.Palette {
	pal := make(color.Palette, ColorsPerPalette)
	pal[0] = color.NRGBA{}
	for i := 1; i < ColorsPerPalette; i++ {
		v := uint8(i * 255 / (ColorsPerPalette - 1))
		pal[i] = color.NRGBA{R: v, G: v, B: v, A: 0xff}
	}
	return pal
}
