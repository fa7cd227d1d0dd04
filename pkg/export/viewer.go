// Package export writes simulation results to disk: intensity maps as 16-bit
// PNG images and line profiles as CSV tables.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"simmla/internal/models"
)

// Viewer extracts images and line profiles from a 2D focal-plane map
type Viewer struct {
	// focal holds the composed focal-plane field
	focal *models.FocalMap

	// intensity caches |field|^2 in row-major order
	intensity []float64

	// peak is the largest intensity, used to normalise images
	peak float64
}

// NewViewer creates a viewer over m, which must hold one value per (X, Y)
// pair.
func NewViewer(m *models.FocalMap) (*Viewer, error) {
	if len(m.X) == 0 || len(m.Y) == 0 || len(m.Field) != len(m.X)*len(m.Y) {
		return nil, fmt.Errorf("focal map has %d values for %dx%d coordinates", len(m.Field), len(m.Y), len(m.X))
	}
	intensity := m.Intensity()
	return &Viewer{
		focal:     m,
		intensity: intensity,
		peak:      floats.Max(intensity),
	}, nil
}

// Peak returns the largest intensity of the map
func (v *Viewer) Peak() float64 { return v.peak }

// ExtractProfile extracts a line profile through the map. Axis "x" returns
// row position (varying x); axis "y" returns column position (varying y).
func (v *Viewer) ExtractProfile(axis string, position int) (models.Profile, error) {
	if position < 0 {
		return models.Profile{}, fmt.Errorf("position must be non-negative")
	}

	switch axis {
	case "x", "X":
		if position >= len(v.focal.Y) {
			return models.Profile{}, fmt.Errorf("position %d exceeds row count %d", position, len(v.focal.Y))
		}
		return v.focal.Row(position), nil

	case "y", "Y":
		if position >= len(v.focal.X) {
			return models.Profile{}, fmt.Errorf("position %d exceeds column count %d", position, len(v.focal.X))
		}
		return v.focal.Column(position), nil

	default:
		return models.Profile{}, fmt.Errorf("invalid axis: %s (must be x or y)", axis)
	}
}

// CenterProfiles returns the profiles through the middle row and column
func (v *Viewer) CenterProfiles() (row, col models.Profile) {
	return v.focal.Row(len(v.focal.Y) / 2), v.focal.Column(len(v.focal.X) / 2)
}

// IntensityImage renders the intensity normalised to its peak. Image rows
// run from the largest y at the top to the smallest at the bottom.
func (v *Viewer) IntensityImage() *image.Gray16 {
	w, h := len(v.focal.X), len(v.focal.Y)
	img := image.NewGray16(image.Rect(0, 0, w, h))
	if v.peak <= 0 {
		return img
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			value := uint16(math.Max(0, math.Min(65535, math.Round(v.intensity[r*w+c]/v.peak*65535))))
			img.SetGray16(c, h-1-r, color.Gray16{Y: value})
		}
	}
	return img
}

// SaveImage saves the normalised intensity map as a 16-bit PNG image
func (v *Viewer) SaveImage(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(file, v.IntensityImage()); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
