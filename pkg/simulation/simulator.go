// Package simulation runs the complete microlens array pipeline: it builds
// the sampling array and input beam from a configuration, optionally
// propagates the beam to the array, transforms every lenslet into its focal
// plane, composes the lenslet fields, and reports and saves the result.
package simulation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"simmla/internal/models"
	"simmla/pkg/beam"
	"simmla/pkg/config"
	"simmla/pkg/export"
	"simmla/pkg/fftpack"
	"simmla/pkg/grid"
)

// Output file names written to the configured output directory
const (
	ManifestFile      = "run.yaml"
	InputProfileFile  = "input_profile.csv"
	FocalProfileFile  = "focal_profile.csv"
	FocalRowFile      = "focal_row.csv"
	FocalColumnFile   = "focal_column.csv"
	FocalIntensityPNG = "focal_intensity.png"
)

// Manifest records a finished run next to its output files
type Manifest struct {
	RunID   string         `yaml:"runId"`
	Started time.Time      `yaml:"started"`
	Elapsed string         `yaml:"elapsed"`
	Config  *config.Config `yaml:"config"`
	Metrics models.Metrics `yaml:"metrics"`
	Files   []string       `yaml:"files"`
}

// Simulator runs one simulation described by a configuration.
//
// The pipeline consists of these steps:
// 1. Building the microlens array and the input beam
// 2. Sampling the beam and, in 1D, propagating it to the array
// 3. Transforming every subgrid into its lenslet's focal plane
// 4. Composing the lenslet fields on the query coordinates
// 5. Calculating metrics
// 6. Saving results
type Simulator struct {
	// cfg stores the validated configuration
	cfg *config.Config

	// runID identifies this run in logs and in the manifest
	runID string

	array *grid.Array
	beam  beam.Profile

	// input holds the sampled input field on the array grid, row-major in 2D
	input []complex128

	profile *models.Profile
	focal   *models.FocalMap
	metrics models.Metrics
	files   []string
}

// NewSimulator validates cfg and builds the array and beam it describes.
// An empty runID is replaced by a random UUID.
func NewSimulator(cfg *config.Config, runID string) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	arr, err := grid.NewArray(cfg.Grid.NumSubgrids, cfg.Grid.SubgridSize, cfg.Grid.PhysicalSize,
		cfg.Grid.Wavelength, cfg.Grid.FocalLength, cfg.Grid.Dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to build microlens array: %w", err)
	}

	profile, err := beam.New(beam.Spec{
		Kind:    beam.Kind(cfg.Beam.Kind),
		Power:   cfg.Beam.Power,
		Width:   cfg.Beam.Width,
		OffsetX: cfg.Beam.OffsetX,
		OffsetY: cfg.Beam.OffsetY,
	})
	if err != nil {
		return nil, err
	}

	return &Simulator{cfg: cfg, runID: runID, array: arr, beam: profile}, nil
}

// RunID returns the identifier of this run
func (s *Simulator) RunID() string { return s.runID }

// Array returns the microlens array being simulated
func (s *Simulator) Array() *grid.Array { return s.array }

// Metrics returns the metrics of the last Process call
func (s *Simulator) Metrics() models.Metrics { return s.metrics }

// Profile returns the composed focal-plane profile of a 1D run, or nil
func (s *Simulator) Profile() *models.Profile { return s.profile }

// FocalMap returns the composed focal-plane map of a 2D run, or nil
func (s *Simulator) FocalMap() *models.FocalMap { return s.focal }

// Input returns the sampled input field on the array grid
func (s *Simulator) Input() []complex128 { return s.input }

// Files returns the paths written by the last Process call
func (s *Simulator) Files() []string { return s.files }

// logf logs progress at info level when verbose output is configured and
// at -v=1 otherwise.
func (s *Simulator) logf(format string, args ...any) {
	args = append([]any{s.runID}, args...)
	if s.cfg.Output.Verbose {
		glog.Infof("[%s] "+format, args...)
		return
	}
	glog.V(1).Infof("[%s] "+format, args...)
}

// Process runs the complete simulation pipeline
func (s *Simulator) Process() error {
	start := time.Now()
	g := s.array.Grid()
	s.files = nil

	s.logf("Step 1: Microlens array with %d^%d subgrids of %d samples, grid size %d",
		s.array.NumSubgrids(), g.Dim(), s.array.SubgridSize(), g.Size())

	opts := fftpack.Options{NoClip: !s.cfg.Transform.Clip, Workers: s.cfg.Transform.Workers}
	query := QueryCoordinates(s.array, s.cfg.Output.QuerySamples)

	if g.Dim() == 1 {
		s.logf("Step 2: Sampling %s beam", s.cfg.Beam.Kind)
		field, err := s.sampleInput1D()
		if err != nil {
			return fmt.Errorf("failed to sample input field: %w", err)
		}

		s.logf("Step 3: Transforming %d subgrids with %d workers", s.array.NumSubgrids(), opts.Workers)
		pairs, err := fftpack.FFTSubgrid(field, s.array, opts)
		if err != nil {
			return fmt.Errorf("failed to transform subgrids: %w", err)
		}

		s.logf("Step 4: Composing focal plane field at %d points", len(query))
		s.profile = &models.Profile{X: query, Field: Compose1D(pairs, query)}
		s.focal = nil

		s.logf("Step 5: Calculating metrics")
		s.metrics = ProfileMetrics(s.input, g.PhysicalStep(), *s.profile)
	} else {
		s.logf("Step 2: Sampling %s beam", s.cfg.Beam.Kind)
		u, err := g.Sample2D(s.beam)
		if err != nil {
			return fmt.Errorf("failed to sample input field: %w", err)
		}
		raw := u.RawCMatrix()
		s.input = flatten(raw.Data, g.Size(), raw.Stride)

		s.logf("Step 3: Transforming %d subgrids with %d workers", s.array.NumSubgrids()*s.array.NumSubgrids(), opts.Workers)
		pairs, err := fftpack.FFT2Subgrid(s.beam, s.array, opts)
		if err != nil {
			return fmt.Errorf("failed to transform subgrids: %w", err)
		}

		s.logf("Step 4: Composing focal plane field on a %dx%d mesh", len(query), len(query))
		s.focal = Compose2D(pairs, query, query)
		s.profile = nil

		s.logf("Step 5: Calculating metrics")
		s.metrics = MapMetrics(s.input, g.PhysicalStep(), s.focal)
	}
	s.logf("Input power %.6g, focal power %.6g (ratio %.6f), peak intensity %.6g",
		s.metrics.InputPower, s.metrics.FocalPower, s.metrics.PowerRatio, s.metrics.PeakIntensity)

	if s.cfg.Output.CSV || s.cfg.Output.PNG {
		s.logf("Step 6: Saving results to %s", s.cfg.Output.Dir)
		if err := s.save(start); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
	}
	return nil
}

// sampleInput1D samples the beam on the array grid and, when configured,
// propagates it to the array. The returned sampler yields the field the
// lenslets see.
func (s *Simulator) sampleInput1D() (grid.Sampler1D, error) {
	g := s.array.Grid()
	u, err := g.Sample1D(s.beam)
	if err != nil {
		return nil, err
	}
	d := s.cfg.Propagation.Distance
	if d == 0 {
		s.input = u
		return s.beam, nil
	}

	s.logf("Propagating input field %g m", d)
	u, err = fftpack.PropagateWith(u, g, d, fftpack.PropagateOptions{
		SuppressEvanescent: s.cfg.Propagation.SuppressEvanescent,
	})
	if err != nil {
		return nil, err
	}
	s.input = u
	return grid.Samples1D(u), nil
}

func flatten(data []complex128, n, stride int) []complex128 {
	out := make([]complex128, 0, n*n)
	for r := 0; r < n; r++ {
		out = append(out, data[r*stride:r*stride+n]...)
	}
	return out
}

func (s *Simulator) save(start time.Time) error {
	dir := s.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if s.profile != nil {
		if s.cfg.Output.CSV {
			in := models.Profile{X: s.array.Grid().Physical(), Field: s.input}
			if err := s.saveProfile(in, InputProfileFile); err != nil {
				return err
			}
			if err := s.saveProfile(*s.profile, FocalProfileFile); err != nil {
				return err
			}
		}
		if s.cfg.Output.PNG {
			glog.Warningf("[%s] PNG output needs a 2D simulation, skipping", s.runID)
		}
	}

	if s.focal != nil {
		viewer, err := export.NewViewer(s.focal)
		if err != nil {
			return err
		}
		if s.cfg.Output.CSV {
			row, col := viewer.CenterProfiles()
			if err := s.saveProfile(row, FocalRowFile); err != nil {
				return err
			}
			if err := s.saveProfile(col, FocalColumnFile); err != nil {
				return err
			}
		}
		if s.cfg.Output.PNG {
			path := filepath.Join(dir, FocalIntensityPNG)
			if err := viewer.SaveImage(path); err != nil {
				return err
			}
			s.files = append(s.files, path)
		}
	}

	manifest := Manifest{
		RunID:   s.runID,
		Started: start.UTC(),
		Elapsed: time.Since(start).String(),
		Config:  s.cfg,
		Metrics: s.metrics,
		Files:   s.files,
	}
	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("error marshaling manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	s.files = append(s.files, path)
	return nil
}

func (s *Simulator) saveProfile(p models.Profile, name string) error {
	path := filepath.Join(s.cfg.Output.Dir, name)
	if err := export.SaveProfile(p, path); err != nil {
		return err
	}
	s.files = append(s.files, path)
	return nil
}

// LoadManifest reads a manifest written by a previous run
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest: %w", err)
	}
	return &m, nil
}
