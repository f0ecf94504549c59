package banner

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	bannerWidth  = 634
	bannerHeight = 356
)

// Generator renders the weekly lottery banner: the per-winner gold amount
// and current odds drawn over a template image.
type Generator struct {
	templatePath string
}

// NewGenerator creates a banner generator. The template is re-read per
// render so it can be swapped without a restart.
func NewGenerator(templatePath string) *Generator {
	return &Generator{templatePath: templatePath}
}

// Render produces the banner JPEG for the given pot and entry count. Pot
// and the derived share are in copper coins.
func (g *Generator) Render(pot, entries int64) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("Banner render completed")
	}()

	dc := gg.NewContextForImage(g.background())

	gold := color(210, 200, 60)

	// Per-winner share in whole gold
	share := int64(math.Round(float64(pot) * 0.25 / 10000))

	face, err := loadFont(gobold.TTF, 72)
	if err != nil {
		return nil, fmt.Errorf("failed to load banner font: %w", err)
	}
	dc.SetFontFace(face)
	dc.SetRGB(gold[0], gold[1], gold[2])
	dc.DrawString(fmt.Sprintf("%d", share), 50, 100)

	if face, err = loadFont(gobold.TTF, 25); err != nil {
		return nil, fmt.Errorf("failed to load banner font: %w", err)
	}
	dc.SetFontFace(face)
	dc.DrawString("Gold Each", 50, 134)

	if face, err = loadFont(goregular.TTF, 14); err != nil {
		return nil, fmt.Errorf("failed to load banner font: %w", err)
	}
	dc.SetFontFace(face)
	dc.DrawString(fmt.Sprintf("Current Odds 1:%d*", entries), 50, 155)

	// Footer strip
	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, 330, bannerWidth, 26)
	dc.Fill()

	if face, err = loadFont(goregular.TTF, 12); err != nil {
		return nil, fmt.Errorf("failed to load banner font: %w", err)
	}
	dc.SetFontFace(face)
	dc.SetRGB(gold[0], gold[1], gold[2])
	dc.DrawString("TinyArmy.org - Generated "+time.Now().UTC().Format("01-02-2006 15:04:05"), 5, 347)
	dc.DrawString("* Odds are based on 1 gold entry.", 423, 347)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode banner: %w", err)
	}
	return buf.Bytes(), nil
}

// background loads the template image, falling back to a plain dark canvas
// when the template is missing or unreadable.
func (g *Generator) background() image.Image {
	f, err := os.Open(g.templatePath)
	if err != nil {
		log.WithError(err).WithField("path", g.templatePath).Warn("Banner template unavailable, using plain background")
		return plainBackground()
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.WithError(err).WithField("path", g.templatePath).Warn("Banner template unreadable, using plain background")
		return plainBackground()
	}
	return img
}

func plainBackground() image.Image {
	dc := gg.NewContext(bannerWidth, bannerHeight)
	dc.SetRGB(0.08, 0.07, 0.05)
	dc.Clear()
	return dc.Image()
}

func color(r, g, b int) [3]float64 {
	return [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// loadFont loads a font face from embedded font data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
