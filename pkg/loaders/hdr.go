package loaders

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pathforge/raygo/pkg/core"
)

// LoadHDR loads a Radiance RGBE (.hdr) image and returns it as a linear
// Vec3 array, for use as an HDRI environment light.
func LoadHDR(filename string) (*ImageData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open HDR file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	if err := skipHDRHeader(reader); err != nil {
		return nil, fmt.Errorf("failed to parse HDR header: %w", err)
	}

	width, height, err := readHDRResolution(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HDR resolution: %w", err)
	}

	pixels := make([]core.Vec3, width*height)
	scanline := make([]rgbe, width)
	for y := 0; y < height; y++ {
		if err := readScanline(reader, scanline); err != nil {
			return nil, fmt.Errorf("failed to read HDR scanline %d: %w", y, err)
		}
		for x, px := range scanline {
			pixels[y*width+x] = px.toVec3()
		}
	}

	fmt.Printf("Loaded HDR image: %dx%d in %v\n", width, height, time.Since(startTime))

	return &ImageData{Width: width, Height: height, Pixels: pixels}, nil
}

// rgbe is one Radiance-encoded pixel: a shared exponent and three
// mantissa bytes.
type rgbe struct {
	r, g, b, e byte
}

// toVec3 converts an RGBE pixel to a linear radiance value, following the
// reference decoding ldexp(mantissa/256, exponent-128).
func (p rgbe) toVec3() core.Vec3 {
	if p.e == 0 {
		return core.Vec3{}
	}
	f := math.Ldexp(1.0, int(p.e)-128-8) // divide by 256 folded into the exponent
	return core.NewVec3(float64(p.r)*f, float64(p.g)*f, float64(p.b)*f)
}

// skipHDRHeader consumes the "#?RADIANCE" magic and variable-length
// header lines (FORMAT=, EXPOSURE=, comments) up to the blank line that
// terminates it.
func skipHDRHeader(r *bufio.Reader) error {
	line, err := r.ReadString('\n')
	if err != nil {
		return err
	}
	if !strings.HasPrefix(line, "#?") {
		return fmt.Errorf("missing Radiance magic number")
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}
		// FORMAT=32-bit_rle_rgbe is the only pixel format in practice;
		// other header lines (EXPOSURE, COLORCORR, comments) are ignored.
	}
}

// readHDRResolution parses a resolution line of the form "-Y H +X W",
// the standard top-to-bottom, left-to-right orientation this loader
// assumes throughout.
func readHDRResolution(r *bufio.Reader) (width, height int, err error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return 0, 0, fmt.Errorf("unexpected resolution line %q", line)
	}
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid resolution dimension %q: %w", fields[i+1], err)
		}
		switch fields[i][1] {
		case 'Y':
			height = n
		case 'X':
			width = n
		default:
			return 0, 0, fmt.Errorf("unsupported resolution axis %q", fields[i])
		}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("non-positive HDR dimensions %dx%d", width, height)
	}
	return width, height, nil
}

// readScanline fills dst (len(dst) == width) with one row of pixels,
// transparently handling both the legacy flat encoding and the
// new-style adaptive RLE encoding Radiance uses for wide scanlines.
func readScanline(r *bufio.Reader, dst []rgbe) error {
	width := len(dst)

	if width < 8 || width > 0x7fff {
		return readFlatScanline(r, dst)
	}

	header := make([]byte, 4)
	if _, err := readFull(r, header); err != nil {
		return err
	}

	if header[0] != 2 || header[1] != 2 || (int(header[2])<<8|int(header[3])) != width {
		// Not the new RLE marker; treat the four bytes already read as
		// the first flat pixel and fall back to flat decoding.
		dst[0] = rgbe{header[0], header[1], header[2], header[3]}
		return readFlatScanline(r, dst[1:])
	}

	for channel := 0; channel < 4; channel++ {
		if err := readRLEChannel(r, dst, channel); err != nil {
			return err
		}
	}
	return nil
}

func readFlatScanline(r *bufio.Reader, dst []rgbe) error {
	buf := make([]byte, 4*len(dst))
	if _, err := readFull(r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = rgbe{buf[4*i], buf[4*i+1], buf[4*i+2], buf[4*i+3]}
	}
	return nil
}

// readRLEChannel decodes one of the four per-scanline byte planes
// (R, G, B, E in that order) written as a run of (count>128 ? repeat :
// literal) spans, per the Radiance adaptive RLE scheme.
func readRLEChannel(r *bufio.Reader, dst []rgbe, channel int) error {
	width := len(dst)
	pos := 0
	for pos < width {
		count, err := r.ReadByte()
		if err != nil {
			return err
		}
		if count > 128 {
			runLen := int(count) - 128
			value, err := r.ReadByte()
			if err != nil {
				return err
			}
			for i := 0; i < runLen; i++ {
				setChannel(&dst[pos], channel, value)
				pos++
			}
		} else {
			runLen := int(count)
			buf := make([]byte, runLen)
			if _, err := readFull(r, buf); err != nil {
				return err
			}
			for i := 0; i < runLen; i++ {
				setChannel(&dst[pos], channel, buf[i])
				pos++
			}
		}
	}
	return nil
}

func setChannel(p *rgbe, channel int, value byte) {
	switch channel {
	case 0:
		p.r = value
	case 1:
		p.g = value
	case 2:
		p.b = value
	case 3:
		p.e = value
	}
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
