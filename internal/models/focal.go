package models

// Profile is a complex field sampled along one focal-plane axis
type Profile struct {
	// X holds the physical coordinates of the samples in meters
	X []float64

	// Field holds the complex amplitude at each coordinate
	Field []complex128
}

// Intensity returns |Field|^2 at every sample
func (p *Profile) Intensity() []float64 {
	out := make([]float64, len(p.Field))
	for i, v := range p.Field {
		out[i] = real(v)*real(v) + imag(v)*imag(v)
	}
	return out
}

// FocalMap is a complex field sampled on a square focal-plane mesh
type FocalMap struct {
	// X and Y are the physical coordinates of the columns and rows
	X, Y []float64

	// Field is stored row-major: Field[r*len(X)+c] is the value at (X[c], Y[r])
	Field []complex128
}

// At returns the field at row r and column c
func (m *FocalMap) At(r, c int) complex128 {
	return m.Field[r*len(m.X)+c]
}

// Intensity returns |Field|^2 in the same row-major order as Field
func (m *FocalMap) Intensity() []float64 {
	p := Profile{Field: m.Field}
	return p.Intensity()
}

// Row returns the profile along X at row r
func (m *FocalMap) Row(r int) Profile {
	n := len(m.X)
	field := make([]complex128, n)
	copy(field, m.Field[r*n:(r+1)*n])
	x := make([]float64, n)
	copy(x, m.X)
	return Profile{X: x, Field: field}
}

// Column returns the profile along Y at column c
func (m *FocalMap) Column(c int) Profile {
	n := len(m.X)
	field := make([]complex128, len(m.Y))
	for r := range m.Y {
		field[r] = m.Field[r*n+c]
	}
	y := make([]float64, len(m.Y))
	copy(y, m.Y)
	return Profile{X: y, Field: field}
}

// Metrics summarises a simulation run
type Metrics struct {
	// InputPower is the discrete power of the input field on the array grid
	InputPower float64 `yaml:"inputPower"`

	// FocalPower is the discrete power of the composed focal-plane field
	FocalPower float64 `yaml:"focalPower"`

	// PowerRatio is FocalPower / InputPower, or 0 when there is no input
	PowerRatio float64 `yaml:"powerRatio"`

	// CentroidX and CentroidY are the intensity-weighted mean coordinates
	CentroidX float64 `yaml:"centroidX"`
	CentroidY float64 `yaml:"centroidY"`

	// RMSWidthX and RMSWidthY are the intensity-weighted standard deviations
	RMSWidthX float64 `yaml:"rmsWidthX"`
	RMSWidthY float64 `yaml:"rmsWidthY"`

	// PeakIntensity is the largest |field|^2 in the focal plane
	PeakIntensity float64 `yaml:"peakIntensity"`
}
