package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

const ContentTypePNG = "image/png"

var (
	colorLand      = color.RGBA{236, 240, 233, 255}
	colorGrid      = color.RGBA{214, 220, 210, 255}
	colorPrimary   = color.RGBA{63, 81, 181, 255}
	colorAccent    = color.RGBA{255, 152, 0, 255}
	colorCluster   = color.RGBA{94, 53, 177, 230}
	colorText      = color.RGBA{33, 33, 33, 255}
	colorMuted     = color.RGBA{97, 97, 97, 255}
	colorPanel     = color.RGBA{255, 255, 255, 235}
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorNoticeBG  = color.RGBA{250, 250, 250, 255}
	colorNoticeBar = color.RGBA{211, 47, 47, 255}
)

// Sketcher draws offline PNG previews of map scenes
type Sketcher struct {
	font *truetype.Font
}

// NewSketcher parses the embedded Go Regular font
func NewSketcher() (*Sketcher, error) {
	parsed, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Sketcher{font: parsed}, nil
}

func (s *Sketcher) face(size float64) font.Face {
	return truetype.NewFace(s.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Scene draws markers and clusters projected around the scene center at the scene zoom
func (s *Sketcher) Scene(scene entities.MapScene, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), colorLand)
	drawGrid(img, 64)

	cx, cy := entities.WorldPixel(scene.Center, float64(scene.Zoom))
	project := func(c entities.Coordinates) (int, int) {
		x, y := entities.WorldPixel(c, float64(scene.Zoom))
		return int(math.Round(x-cx)) + width/2, int(math.Round(y-cy)) + height/2
	}

	clustered := make(map[string]bool)
	for _, cl := range scene.Clusters {
		for _, id := range cl.MarkerIDs {
			clustered[id] = true
		}
	}

	small := s.face(12)
	for _, cl := range scene.Clusters {
		x, y := project(cl.Center)
		radius := 12 + int(math.Min(float64(cl.Count), 10))
		fillCircle(img, x, y, radius+2, colorWhite)
		c := colorCluster
		if cl.Highlighted {
			c = colorAccent
		}
		fillCircle(img, x, y, radius, c)
		label := strconv.Itoa(cl.Count)
		s.drawString(img, small, label, x-measure(small, label)/2, y+4, colorWhite)
	}

	for _, m := range scene.Markers {
		if clustered[m.ID] {
			continue
		}
		x, y := project(m.Position)
		c := colorPrimary
		if m.Style == entities.MarkerAccent {
			c = colorAccent
		}
		fillCircle(img, x, y, 9, colorWhite)
		fillCircle(img, x, y, 7, c)
	}

	footer := s.face(11)
	caption := fmt.Sprintf("%s | zoom %d | %s", scene.Basemap.Backend, scene.Zoom, scene.Center.String())
	fill(img, image.Rect(0, height-18, width, height), colorPanel)
	s.drawString(img, footer, caption, 6, height-5, colorMuted)

	if scene.Welcome.Visible {
		s.drawPanel(img, scene.Welcome.Title, scene.Welcome.Message, colorPrimary)
	}

	return encode(img)
}

// Notice draws a plain panel explaining why no map can be shown
func (s *Sketcher) Notice(title, message string, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), colorNoticeBG)
	s.drawPanel(img, title, message, colorNoticeBar)
	return encode(img)
}

func (s *Sketcher) drawPanel(img *image.RGBA, title, message string, accent color.RGBA) {
	b := img.Bounds()
	panelW := int(math.Min(float64(b.Dx()-40), 420))
	if panelW <= 0 {
		return
	}
	titleFace := s.face(18)
	bodyFace := s.face(13)
	lines := wrap(bodyFace, message, panelW-24)
	panelH := 48 + len(lines)*18

	x0 := (b.Dx() - panelW) / 2
	y0 := (b.Dy() - panelH) / 2
	fill(img, image.Rect(x0, y0, x0+panelW, y0+panelH), colorPanel)
	fill(img, image.Rect(x0, y0, x0+panelW, y0+4), accent)

	s.drawString(img, titleFace, title, x0+12, y0+28, colorText)
	for i, line := range lines {
		s.drawString(img, bodyFace, line, x0+12, y0+50+i*18, colorMuted)
	}
}

func (s *Sketcher) drawString(img *image.RGBA, face font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func measure(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

func wrap(face font.Face, text string, maxWidth int) []string {
	lines := []string{}
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(face, candidate) > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawGrid(img *image.RGBA, step int) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x += step {
		fill(img, image.Rect(x, b.Min.Y, x+1, b.Max.Y), colorGrid)
	}
	for y := b.Min.Y; y < b.Max.Y; y += step {
		fill(img, image.Rect(b.Min.X, y, b.Max.X, y+1), colorGrid)
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	b := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
