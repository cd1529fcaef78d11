package libio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pierrec/lz4/v4"
)

const (
	MinCubeSize     = 2
	MaxCubeSize     = 256
	DefaultCubeSize = 32
)

// Cube is a 3D colour lookup table in the .cube text format.
// Pix holds Size^3 RGB triplets with red changing fastest, then green, then blue,
// which is also the layout of a GL_RGB 3D texture.
type Cube struct {
	Title     string
	Size      int
	DomainMin mgl32.Vec3
	DomainMax mgl32.Vec3
	Pix       []float32
}

func NewCube(size int) *Cube {
	return &Cube{
		Size:      size,
		DomainMin: mgl32.Vec3{0, 0, 0},
		DomainMax: mgl32.Vec3{1, 1, 1},
		Pix:       make([]float32, size*size*size*3),
	}
}

// IdentityCube maps every colour onto itself.
func IdentityCube(size int) *Cube {
	cube := NewCube(size)
	cube.Title = fmt.Sprintf("identity %d", size)
	scale := 1 / float32(size-1)
	i := 0
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				cube.Pix[i+0] = float32(r) * scale
				cube.Pix[i+1] = float32(g) * scale
				cube.Pix[i+2] = float32(b) * scale
				i += 3
			}
		}
	}
	return cube
}

func (cube *Cube) index(r, g, b int) int {
	return (r + g*cube.Size + b*cube.Size*cube.Size) * 3
}

func (cube *Cube) At(r, g, b int) mgl32.Vec3 {
	i := cube.index(r, g, b)
	return mgl32.Vec3{cube.Pix[i], cube.Pix[i+1], cube.Pix[i+2]}
}

// Sample looks up c with trilinear interpolation. Inputs outside the domain are clamped.
func (cube *Cube) Sample(c mgl32.Vec3) mgl32.Vec3 {
	var lo, hi [3]int
	var t [3]float32
	n := float32(cube.Size - 1)
	for i := 0; i < 3; i++ {
		extent := cube.DomainMax[i] - cube.DomainMin[i]
		var x float32
		if extent > 0 {
			x = (c[i] - cube.DomainMin[i]) / extent
		}
		x = math32.Min(math32.Max(x, 0), 1) * n
		f := math32.Floor(x)
		lo[i] = int(f)
		hi[i] = lo[i] + 1
		if hi[i] > cube.Size-1 {
			hi[i] = cube.Size - 1
		}
		t[i] = x - f
	}

	lerp := func(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
		return a.Add(b.Sub(a).Mul(t))
	}
	c00 := lerp(cube.At(lo[0], lo[1], lo[2]), cube.At(hi[0], lo[1], lo[2]), t[0])
	c10 := lerp(cube.At(lo[0], hi[1], lo[2]), cube.At(hi[0], hi[1], lo[2]), t[0])
	c01 := lerp(cube.At(lo[0], lo[1], hi[2]), cube.At(hi[0], lo[1], hi[2]), t[0])
	c11 := lerp(cube.At(lo[0], hi[1], hi[2]), cube.At(hi[0], hi[1], hi[2]), t[0])
	return lerp(lerp(c00, c10, t[1]), lerp(c01, c11, t[1]), t[2])
}

// DecodeCube parses the Adobe / Resolve .cube format. Only 3D tables are supported.
func DecodeCube(r io.Reader) (*Cube, error) {
	cube := &Cube{
		DomainMax: mgl32.Vec3{1, 1, 1},
	}
	expected := -1
	values := 0

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		keyword := fields[0]

		switch {
		case keyword == "TITLE":
			title := strings.TrimSpace(strings.TrimPrefix(text, "TITLE"))
			cube.Title = strings.Trim(title, `"`)
		case keyword == "LUT_3D_SIZE":
			if values > 0 {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE after table data", line)
			}
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE expects one value", line)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid LUT_3D_SIZE: %w", line, err)
			}
			if size < MinCubeSize || size > MaxCubeSize {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE %d out of range [%d, %d]", line, size, MinCubeSize, MaxCubeSize)
			}
			cube.Size = size
			expected = size * size * size
			cube.Pix = make([]float32, 0, expected*3)
		case keyword == "LUT_1D_SIZE":
			return nil, fmt.Errorf("line %d: 1D lookup tables are not supported", line)
		case keyword == "DOMAIN_MIN", keyword == "DOMAIN_MAX":
			v, err := parseCubeTriplet(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", line, keyword, err)
			}
			if keyword == "DOMAIN_MIN" {
				cube.DomainMin = v
			} else {
				cube.DomainMax = v
			}
		case isCubeKeyword(keyword):
			// LUT_3D_INPUT_RANGE and vendor extensions
			continue
		default:
			if expected < 0 {
				return nil, fmt.Errorf("line %d: table data before LUT_3D_SIZE", line)
			}
			if values == expected {
				return nil, fmt.Errorf("line %d: more than %d table entries", line, expected)
			}
			v, err := parseCubeTriplet(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cube.Pix = append(cube.Pix, v[0], v[1], v[2])
			values++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}

	if expected < 0 {
		return nil, fmt.Errorf("line %d: missing LUT_3D_SIZE", line)
	}
	if values != expected {
		return nil, fmt.Errorf("line %d: expected %d table entries, got %d", line, expected, values)
	}
	for i := 0; i < 3; i++ {
		if cube.DomainMax[i] <= cube.DomainMin[i] {
			return nil, fmt.Errorf("line %d: empty domain [%v, %v]", line, cube.DomainMin, cube.DomainMax)
		}
	}
	return cube, nil
}

func isCubeKeyword(s string) bool {
	c := s[0]
	return c >= 'A' && c <= 'Z'
}

func parseCubeTriplet(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) != 3 {
		return v, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return v, fmt.Errorf("invalid value %q", f)
		}
		v[i] = float32(x)
	}
	return v, nil
}

func EncodeCube(w io.Writer, cube *Cube) error {
	if len(cube.Pix) != cube.Size*cube.Size*cube.Size*3 {
		return fmt.Errorf("cube of size %d has %d values", cube.Size, len(cube.Pix))
	}
	bw := bufio.NewWriter(w)
	if cube.Title != "" {
		fmt.Fprintf(bw, "TITLE %q\n", cube.Title)
	}
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", cube.Size)
	fmt.Fprintf(bw, "DOMAIN_MIN %s %s %s\n", formatCubeValue(cube.DomainMin[0]), formatCubeValue(cube.DomainMin[1]), formatCubeValue(cube.DomainMin[2]))
	fmt.Fprintf(bw, "DOMAIN_MAX %s %s %s\n", formatCubeValue(cube.DomainMax[0]), formatCubeValue(cube.DomainMax[1]), formatCubeValue(cube.DomainMax[2]))
	for i := 0; i < len(cube.Pix); i += 3 {
		fmt.Fprintf(bw, "%s %s %s\n", formatCubeValue(cube.Pix[i]), formatCubeValue(cube.Pix[i+1]), formatCubeValue(cube.Pix[i+2]))
	}
	return bw.Flush()
}

func formatCubeValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}

// OpenCube loads a .cube file, files ending in .lz4 are decompressed first.
func OpenCube(path string) (*Cube, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(file)
	}
	cube, err := DecodeCube(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cube, nil
}

// CompressCube copies src to dst through an lz4 frame.
func CompressCube(dst io.Writer, src io.Reader) error {
	lzw := lz4.NewWriter(dst)
	if err := lzw.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
		return err
	}
	if _, err := io.Copy(lzw, src); err != nil {
		return fmt.Errorf("could not compress cube: %w", err)
	}
	return lzw.Close()
}
