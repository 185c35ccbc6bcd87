package errors

import (
	"math"
	"net/url"
	"strings"
)

// MaxCanvasSize bounds either canvas dimension in pixels.
const MaxCanvasSize = 20000

// ValidateCanvas checks that a canvas size is positive, finite and bounded.
func ValidateCanvas(width, height float64) error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return New(ErrCodeInvalidSize, "canvas %s must be a finite number", v.name)
		}
		if v.val <= 0 {
			return New(ErrCodeInvalidSize, "canvas %s must be positive, got %g", v.name, v.val)
		}
		if v.val > MaxCanvasSize {
			return New(ErrCodeInvalidSize, "canvas %s too large (max %d)", v.name, MaxCanvasSize)
		}
	}
	return nil
}

// ValidatePadding checks that outer padding is non-negative and leaves room
// for content inside the canvas.
func ValidatePadding(padding, width, height float64) error {
	if padding < 0 {
		return New(ErrCodeInvalidSize, "padding must not be negative, got %g", padding)
	}
	if 2*padding >= math.Min(width, height) {
		return New(ErrCodeInvalidSize, "padding %g leaves no room inside a %gx%g canvas", padding, width, height)
	}
	return nil
}

// ValidateDatasetURL checks that raw is an absolute http(s) URL.
func ValidateDatasetURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return New(ErrCodeInvalidURL, "dataset URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid dataset URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "dataset URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "dataset URL has no host: %q", raw)
	}
	return nil
}
