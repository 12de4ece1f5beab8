package greeting

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/jsg-federation/memberbook/internal/entity"
)

// Layout constants for the greeting templates.
var (
	photoPosition     = image.Pt(80, 260)
	photoSize         = image.Pt(500, 500)
	namePosition      = image.Pt(650, 320)
	desigPosition     = image.Pt(650, 410)
	groupCityPosition = image.Pt(650, 490)
)

const (
	nameFontSize    = 48
	regularFontSize = 34
	jpegQuality     = 90
)

// Generator composes a greeting image from a template, the member's photo,
// and text overlays.
type Generator struct {
	templatesDir string
	photosDir    string
	outputDir    string
	fontsDir     string
	logger       *slog.Logger

	nameFace    font.Face
	regularFace font.Face
}

func NewGenerator(templatesDir, photosDir, outputDir, fontsDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		templatesDir: templatesDir,
		photosDir:    photosDir,
		outputDir:    outputDir,
		fontsDir:     fontsDir,
		logger:       logger,
	}
	g.nameFace = g.loadFace("Montserrat-Bold.ttf", nameFontSize)
	g.regularFace = g.loadFace("Montserrat-Regular.ttf", regularFontSize)
	return g
}

// loadFace loads a TTF from the fonts directory, falling back to the built-in
// bitmap face when the file is missing or unparsable.
func (g *Generator) loadFace(name string, size float64) font.Face {
	raw, err := os.ReadFile(filepath.Join(g.fontsDir, name))
	if err != nil {
		g.logger.Warn("font unavailable, using builtin face", "font", name, "error", err)
		return basicfont.Face7x13
	}
	ft, err := opentype.Parse(raw)
	if err != nil {
		g.logger.Warn("font parse failed, using builtin face", "font", name, "error", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		g.logger.Warn("face creation failed, using builtin face", "font", name, "error", err)
		return basicfont.Face7x13
	}
	return face
}

// Generate renders the greeting for the member and returns the output path.
func (g *Generator) Generate(m *entity.Member, kind Kind) (string, error) {
	base, err := g.loadTemplate(kind)
	if err != nil {
		return "", err
	}

	canvas := image.NewRGBA(base.Bounds())
	xdraw.Draw(canvas, canvas.Bounds(), base, image.Point{}, xdraw.Src)

	photo := g.loadPhoto(m.PhotoFileName)
	photoRect := image.Rectangle{
		Min: photoPosition,
		Max: photoPosition.Add(photoSize),
	}
	xdraw.ApproxBiLinear.Scale(canvas, photoRect, photo, photo.Bounds(), xdraw.Over, nil)

	groupCity := joinNonEmpty(m.GroupName, m.City)
	g.drawText(canvas, namePosition, m.Name, g.nameFace)
	g.drawText(canvas, desigPosition, m.Designation, g.regularFace)
	g.drawText(canvas, groupCityPosition, groupCity, g.regularFace)

	id := m.ID
	if id == "" {
		id = m.WhatsappNumber
	}
	if id == "" {
		id = strings.ReplaceAll(m.Name, " ", "_")
	}
	outDir := filepath.Join(g.outputDir, string(kind))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.jpg", id, kind))

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create output image: %w", err)
	}
	if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}

func (g *Generator) loadTemplate(kind Kind) (image.Image, error) {
	path := filepath.Join(g.templatesDir, fmt.Sprintf("%s_template.png", kind))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode template %s: %w", path, err)
	}
	return img, nil
}

// loadPhoto returns the member's photo, or a flat placeholder when missing.
func (g *Generator) loadPhoto(fileName string) image.Image {
	if fileName != "" {
		f, err := os.Open(filepath.Join(g.photosDir, fileName))
		if err == nil {
			defer func() { _ = f.Close() }()
			if img, _, derr := image.Decode(f); derr == nil {
				return img
			}
		}
		g.logger.Debug("photo unavailable, using placeholder", "photo", fileName)
	}
	placeholder := image.NewRGBA(image.Rect(0, 0, photoSize.X, photoSize.Y))
	gray := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	xdraw.Draw(placeholder, placeholder.Bounds(), &image.Uniform{C: gray}, image.Point{}, xdraw.Src)
	return placeholder
}

func (g *Generator) drawText(dst *image.RGBA, at image.Point, text string, face font.Face) {
	if text == "" {
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(text)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
