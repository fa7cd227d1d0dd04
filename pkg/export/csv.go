package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/cmplx"
	"os"
	"strconv"

	"simmla/internal/models"
)

var profileHeader = []string{"x", "re", "im", "intensity", "phase"}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteProfile writes p as CSV with one row per sample.
func WriteProfile(w io.Writer, p models.Profile) error {
	if len(p.X) != len(p.Field) {
		return fmt.Errorf("profile has %d coordinates and %d values", len(p.X), len(p.Field))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(profileHeader); err != nil {
		return err
	}
	intensity := p.Intensity()
	for i, v := range p.Field {
		if err := cw.Write([]string{
			formatFloat(p.X[i]),
			formatFloat(real(v)),
			formatFloat(imag(v)),
			formatFloat(intensity[i]),
			formatFloat(cmplx.Phase(v)),
		}); err != nil {
			return fmt.Errorf("writing CSV line %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveProfile writes p as CSV to filename.
func SaveProfile(p models.Profile, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteProfile(file, p); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadProfile parses a table written by WriteProfile. The intensity and
// phase columns are derived values and are ignored.
func ReadProfile(r io.Reader) (models.Profile, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return models.Profile{}, err
	}
	if len(records) == 0 {
		return models.Profile{}, fmt.Errorf("empty profile")
	}

	var p models.Profile
	for i, rec := range records[1:] {
		if len(rec) != len(profileHeader) {
			return models.Profile{}, fmt.Errorf("line %d: expected %d fields, got %d", i+2, len(profileHeader), len(rec))
		}
		var vals [3]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return models.Profile{}, fmt.Errorf("line %d: %w", i+2, err)
			}
		}
		p.X = append(p.X, vals[0])
		p.Field = append(p.Field, complex(vals[1], vals[2]))
	}
	return p, nil
}
