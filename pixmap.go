package enhance

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
)

// Pixmap errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("enhance: invalid dimensions")
)

// Pixmap is a mutable raster buffer in straight (non-premultiplied) RGBA
// format, 8 bits per channel, row-major. It is the common data interchange
// format shared by the CPU and GPU backends.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel
}

// NewPixmap creates a new zeroed pixmap with the given dimensions.
func NewPixmap(width, height int) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}, nil
}

// Width returns the width of the pixmap in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap in pixels.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data (straight RGBA, 4 bytes per pixel).
// Modifying the slice modifies the pixmap.
func (p *Pixmap) Data() []uint8 { return p.data }

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// GetRGBA returns the color at (x, y) as 8-bit channels.
// Returns (0,0,0,0) if the coordinates are out of bounds.
func (p *Pixmap) GetRGBA(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetRGBA sets the color at (x, y). Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Fill sets every pixel to the given color.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// FromImage creates a pixmap from a standard library image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}

	// Fast path: NRGBA matches our straight-alpha layout.
	if nrgba, ok := img.(*image.NRGBA); ok {
		rowLen := width * 4
		for y := range height {
			srcStart := y * nrgba.Stride
			copy(pm.data[y*rowLen:(y+1)*rowLen], nrgba.Pix[srcStart:srcStart+rowLen])
		}
		return pm
	}

	// Generic path for any image type, un-premultiplying via NRGBAModel.
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := (y*width + x) * 4
			pm.data[i] = c.R
			pm.data[i+1] = c.G
			pm.data[i+2] = c.B
			pm.data[i+3] = c.A
		}
	}
	return pm
}

// ToImage converts the pixmap to an *image.NRGBA sharing no data with the
// pixmap.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	rowLen := p.width * 4
	for y := range p.height {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], p.data[y*rowLen:(y+1)*rowLen])
	}
	return img
}

// EncodePNG encodes the pixmap as PNG to the given writer.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, p.ToImage()); err != nil {
		return fmt.Errorf("enhance: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes the pixmap as JPEG to the given writer with the given
// quality (1-100).
func (p *Pixmap) EncodeJPEG(w io.Writer, quality int) error {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	if err := jpeg.Encode(w, p.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("enhance: encode JPEG: %w", err)
	}
	return nil
}

// EncodeJPEGBytes encodes the pixmap to JPEG and returns the bytes.
func (p *Pixmap) EncodeJPEGBytes(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.EncodeJPEG(&buf, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	r, g, b, a := p.GetRGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
