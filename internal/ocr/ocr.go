// Package ocr wraps Tesseract for delivery-app screenshots. The engine is
// a black box to the rest of the system: bytes in, text blob out.
package ocr

import (
	"bytes"
	"fmt"
	"image/png"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// minWidth is the width screenshots are upscaled to before recognition;
// Tesseract accuracy on CJK glyphs degrades sharply below this.
const minWidth = 900

type Engine struct {
	languages []string
}

// NewEngine creates an engine for the given Tesseract language packs,
// defaulting to traditional Chinese plus English.
func NewEngine(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = []string{"chi_tra", "eng"}
	}
	return &Engine{languages: languages}
}

var horizontalWS = regexp.MustCompile(`[ \t]+`)

// Text runs OCR over one screenshot. The output keeps line breaks (the
// parsing core depends on line structure) but squeezes horizontal
// whitespace and folds 臺 to 台.
func (e *Engine) Text(imageBytes []byte) (string, error) {
	prepared, err := preprocess(imageBytes)
	if err != nil {
		return "", err
	}

	// A gosseract client is a cgo resource and not goroutine-safe, so
	// each recognition gets its own.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set ocr languages: %w", err)
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("load screenshot: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}

	text = horizontalWS.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "臺", "台")
	return text, nil
}

func preprocess(imageBytes []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dx() < minWidth {
		gray = imaging.Resize(gray, minWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode preprocessed screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
