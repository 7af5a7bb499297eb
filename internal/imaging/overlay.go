package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/charuco-tools-mcp/internal/board"
)

// Defaults for CornerMapOptions fields left at their zero value.
const (
	DefaultPixelsPerSquare = 40
	DefaultCornerColor     = "#2979FF"
	DefaultSelectionColor  = "#FF1744"
	DefaultLineColor       = "#FFC400"

	// MaxPixels bounds the rendered image area, before and after scaling.
	MaxPixels = 1 << 24

	minPixelsPerSquare = 4
	maxPixelsPerSquare = 400
	maxScale           = 8.0
	lineAlpha          = 160
)

// CornerMapOptions controls RenderCornerMap.
type CornerMapOptions struct {
	// PixelsPerSquare is the side of one chessboard square in pixels.
	PixelsPerSquare int

	// Selection lists corner ids to highlight. When it holds at least two
	// distinct points, the line through the first two is drawn.
	Selection []int

	// Scale resizes the finished image. 0 means 1.
	Scale float64

	// Colours as "#RRGGBB" hex strings. Empty strings use the defaults.
	CornerColor    string
	SelectionColor string
	LineColor      string
}

// CornerMapResult contains the rendered corner map.
type CornerMapResult struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	ImageBase64     string `json:"image_base64"`
	MimeType        string `json:"mime_type"`
	PixelsPerSquare int    `json:"pixels_per_square"`
	CornerCount     int    `json:"corner_count"`
	SelectedCount   int    `json:"selected_count"`
}

// RenderCornerMap draws a board's chessboard squares with every interior
// corner marked, the selected corners highlighted, and the collinearity test
// line through the first two selected corners.
//
// Squares alternate starting with black in the top-left. Markers are not
// drawn. Interior corner (row, col) lands on pixel
// ((col+1)*PixelsPerSquare, (row+1)*PixelsPerSquare) before scaling.
//
// A selection id outside the board fails with board.ErrIndexOutOfRange. An
// image larger than MaxPixels, before or after scaling, is an error.
func RenderCornerMap(b *board.Board, opts CornerMapOptions) (*CornerMapResult, error) {
	pps := opts.PixelsPerSquare
	if pps == 0 {
		pps = DefaultPixelsPerSquare
	}
	if pps < minPixelsPerSquare || pps > maxPixelsPerSquare {
		return nil, fmt.Errorf("pixels_per_square must be between %d and %d, got %d", minPixelsPerSquare, maxPixelsPerSquare, pps)
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1.0
	}
	if scale < 0 || scale > maxScale || math.IsNaN(scale) {
		return nil, fmt.Errorf("scale must be in (0, %g], got %g", maxScale, scale)
	}

	cornerColor, err := parseHexColor(opts.CornerColor, DefaultCornerColor, 255)
	if err != nil {
		return nil, fmt.Errorf("corner color: %w", err)
	}
	selectionColor, err := parseHexColor(opts.SelectionColor, DefaultSelectionColor, 255)
	if err != nil {
		return nil, fmt.Errorf("selection color: %w", err)
	}
	lineColor, err := parseHexColor(opts.LineColor, DefaultLineColor, lineAlpha)
	if err != nil {
		return nil, fmt.Errorf("line color: %w", err)
	}

	// Resolve the selection before drawing anything.
	selected := make([]image.Point, 0, len(opts.Selection))
	for i, id := range opts.Selection {
		c, err := b.Corner(id)
		if err != nil {
			return nil, fmt.Errorf("selection[%d]: %w", i, err)
		}
		selected = append(selected, toPixel(c, b.SquareLength(), pps))
	}

	size := b.ChessboardSize()
	if area := float64(size.X) * float64(size.Y) * float64(pps*pps); area > MaxPixels {
		return nil, fmt.Errorf("%dx%d squares at %d pixels per square exceeds %d pixels", size.X, size.Y, pps, MaxPixels)
	}
	bounds := image.Rect(0, 0, size.X*pps, size.Y*pps)
	w := int(float64(bounds.Dx()) * scale)
	h := int(float64(bounds.Dy()) * scale)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("scale %g leaves an empty image", scale)
	}
	if w*h > MaxPixels {
		return nil, fmt.Errorf("scaled image %dx%d exceeds %d pixels", w, h, MaxPixels)
	}

	base := drawCheckerboard(bounds, pps)

	overlay := image.NewNRGBA(bounds)
	radius := pps / 8
	if radius < 1 {
		radius = 1
	}

	if len(selected) >= 2 && selected[0] != selected[1] {
		drawLine(overlay, selected[0], selected[1], lineColor)
	}
	for _, c := range b.Corners() {
		drawDot(overlay, toPixel(c, b.SquareLength(), pps), radius, cornerColor)
	}
	for _, p := range selected {
		drawDot(overlay, p, radius+1, selectionColor)
	}

	var result image.Image = blend.Normal(base, overlay)
	if scale != 1.0 {
		result = imaging.Resize(result, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &CornerMapResult{
		Width:           result.Bounds().Dx(),
		Height:          result.Bounds().Dy(),
		ImageBase64:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:        "image/png",
		PixelsPerSquare: pps,
		CornerCount:     b.CornerCount(),
		SelectedCount:   len(selected),
	}, nil
}

// toPixel maps a board-local corner to image coordinates. The first interior
// corner sits one square in from the top-left.
func toPixel(c board.Corner, squareLength float64, pps int) image.Point {
	col := c.X / squareLength
	row := c.Y / squareLength
	return image.Pt(
		int(math.Round((col+1)*float64(pps))),
		int(math.Round((row+1)*float64(pps))),
	)
}

func drawCheckerboard(bounds image.Rectangle, pps int) *image.RGBA {
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	cols := bounds.Dx() / pps
	rows := bounds.Dy() / pps
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if (row+col)%2 != 0 {
				continue
			}
			sq := image.Rect(col*pps, row*pps, (col+1)*pps, (row+1)*pps)
			draw.Draw(img, sq, black, image.Point{}, draw.Src)
		}
	}
	return img
}

func drawDot(img *image.NRGBA, center image.Point, radius int, c color.NRGBA) {
	bounds := img.Bounds()
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			p := image.Pt(center.X+dx, center.Y+dy)
			if p.In(bounds) {
				img.SetNRGBA(p.X, p.Y, c)
			}
		}
	}
}

// drawLine draws the full line through a and b, clipped to the image.
func drawLine(img *image.NRGBA, a, b image.Point, c color.NRGBA) {
	bounds := img.Bounds()
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	ux, uy := dx/length, dy/length

	reach := math.Hypot(float64(bounds.Dx()), float64(bounds.Dy()))
	for t := -reach; t <= reach; t += 0.5 {
		x := int(math.Round(float64(a.X) + ux*t))
		y := int(math.Round(float64(a.Y) + uy*t))
		if image.Pt(x, y).In(bounds) {
			img.SetNRGBA(x, y, c)
		}
	}
}

// parseHexColor parses a "#RRGGBB" or "#RGB" colour, falling back to def
// when hex is empty.
func parseHexColor(hex, def string, alpha uint8) (color.NRGBA, error) {
	if hex == "" {
		hex = def
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
