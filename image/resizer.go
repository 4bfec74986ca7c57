package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	zlog "github.com/go-imsto/smol/log"
	"github.com/go-imsto/smol/utils"
)

// defaults of Resizer
const (
	DefaultMaxSize uint = 2048
	DefaultQuality      = 85
	DefaultSubDir       = "smol"
)

var filters = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"mitchell": resize.MitchellNetravali,
	"lanczos2": resize.Lanczos2,
	"lanczos3": resize.Lanczos3,
}

// ParseFilter maps a filter name to a resampling function
func ParseFilter(name string) (resize.InterpolationFunction, error) {
	if f, ok := filters[strings.ToLower(name)]; ok {
		return f, nil
	}
	return resize.Lanczos3, fmt.Errorf("unknown filter %q", name)
}

func logger() zlog.Logger {
	return zlog.Get()
}

// Result describes one written file
type Result struct {
	Src       string `json:"src"`
	Dst       string `json:"dst"`
	SrcWidth  uint   `json:"srcWidth"`
	SrcHeight uint   `json:"srcHeight"`
	DstWidth  uint   `json:"dstWidth"`
	DstHeight uint   `json:"dstHeight"`
	Size      int    `json:"size"`
}

// Option ...
type Option func(*Resizer)

// WithMaxSize sets the longest edge of the output
func WithMaxSize(max uint) Option {
	return func(r *Resizer) {
		if max > 0 {
			r.MaxSize = max
		}
	}
}

// WithQuality sets the jpeg quality, out of range values are ignored
func WithQuality(q int) Option {
	return func(r *Resizer) {
		if q > 0 && q <= 100 {
			r.Quality = q
		}
	}
}

// WithFilter ...
func WithFilter(f resize.InterpolationFunction) Option {
	return func(r *Resizer) {
		r.Filter = f
	}
}

// WithSubDir sets the name of the output directory beside each source
func WithSubDir(name string) Option {
	return func(r *Resizer) {
		if name != "" {
			r.SubDir = name
		}
	}
}

// Resizer downscales one jpeg file into the sibling output directory.
// It holds no per-file state and is safe for concurrent use.
type Resizer struct {
	MaxSize uint
	Quality int
	Filter  resize.InterpolationFunction
	SubDir  string
}

// NewResizer ...
func NewResizer(opts ...Option) *Resizer {
	r := &Resizer{
		MaxSize: DefaultMaxSize,
		Quality: DefaultQuality,
		Filter:  resize.Lanczos3,
		SubDir:  DefaultSubDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DestPath returns <dir of src>/<subDir>/<base of src>
func DestPath(src, subDir string) string {
	return filepath.Join(filepath.Dir(src), subDir, filepath.Base(src))
}

// DestPath ...
func (r *Resizer) DestPath(src string) string {
	return DestPath(src, r.SubDir)
}

// ResizeFile decodes src, shrinks it to fit MaxSize and writes it as jpeg
// to DestPath(src). ctx is checked between steps.
func (r *Resizer) ResizeFile(ctx context.Context, src string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError(Decode, src, err)
	}
	im, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, NewError(Decode, src, err)
	}

	res := &Result{Src: src, Dst: r.DestPath(src)}
	b := im.Bounds()
	res.SrcWidth, res.SrcHeight = uint(b.Dx()), uint(b.Dy())
	res.DstWidth, res.DstHeight = Fit(res.SrcWidth, res.SrcHeight, r.MaxSize)
	logger().Debugw("resize", "src", src,
		"from", fmt.Sprintf("%dx%d", res.SrcWidth, res.SrcHeight),
		"to", fmt.Sprintf("%dx%d", res.DstWidth, res.DstHeight))

	var m image.Image = im
	if res.DstWidth != res.SrcWidth || res.DstHeight != res.SrcHeight {
		m = resize.Resize(res.DstWidth, res.DstHeight, im, r.Filter)
	}

	if err = ctx.Err(); err != nil {
		return nil, NewError(Encode, src, err)
	}
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, m, imaging.JPEG, imaging.JPEGQuality(r.Quality)); err != nil {
		return nil, NewError(Encode, src, err)
	}

	if err = ctx.Err(); err != nil {
		return nil, NewError(DirectoryCreate, src, err)
	}
	dir := filepath.Dir(res.Dst)
	if err = utils.EnsureDir(dir); err != nil {
		return nil, NewError(DirectoryCreate, dir, err)
	}

	if err = ctx.Err(); err != nil {
		return nil, NewError(Write, res.Dst, err)
	}
	if err = os.WriteFile(res.Dst, buf.Bytes(), os.FileMode(0644)); err != nil {
		return nil, NewError(Write, res.Dst, err)
	}
	res.Size = buf.Len()
	logger().Infow("saved", "dst", res.Dst, "size", res.Size)

	return res, nil
}
