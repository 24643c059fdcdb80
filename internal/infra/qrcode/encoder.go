package qrcode

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	qr "github.com/skip2/go-qrcode"

	"survey-service/internal/app"
)

// Encoder renders text into a QR PNG via go-qrcode.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(text string, opts app.ImageOptions) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty content")
	}

	code, err := qr.New(text, qr.Medium)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}
	if opts.Foreground != "" {
		fg, err := parseHexColor(opts.Foreground)
		if err != nil {
			return nil, err
		}
		code.ForegroundColor = fg
	}
	if opts.Background != "" {
		bg, err := parseHexColor(opts.Background)
		if err != nil {
			return nil, err
		}
		code.BackgroundColor = bg
	}
	// go-qrcode only toggles the quiet zone; any positive margin keeps it
	code.DisableBorder = opts.Margin <= 0

	png, err := code.PNG(opts.Size)
	if err != nil {
		return nil, fmt.Errorf("render qr png: %w", err)
	}
	return png, nil
}

func parseHexColor(s string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
