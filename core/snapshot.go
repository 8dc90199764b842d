package core

import "github.com/google/uuid"

// WaterSnapshot is the five water-related grids captured at once; it is
// either wholly present or wholly absent on a Snapshot.
type WaterSnapshot struct {
	SurfaceWater  ScalarGrid
	Precipitation ScalarGrid
	Groundwater   ScalarGrid
	Flow          ScalarGrid
	Sediment      ScalarGrid
}

// Snapshot is an immutable deep copy of a subset of simulation fields plus
// metadata, produced on a fixed wall-clock cadence.
type Snapshot struct {
	ID   uuid.UUID
	Elevation    ScalarGrid
	RockType     RockGrid
	MantleStress ScalarGrid
	Water        Optional[WaterSnapshot]

	SimulationTimeYears float64
	PhaseDescription    string
	StepIndex           int
	CompletionFraction  float64 // 0-1
	GenerationCostMs    float64
}

// NewSnapshot allocates a Snapshot with a fresh identity; callers fill in
// the grids and metadata.
func NewSnapshot() *Snapshot {
	return &Snapshot{ID: uuid.New()}
}

// ElevationAt samples the frozen elevation grid at a grid cell.
func (s *Snapshot) ElevationAt(ix, iz int) float64 { return s.Elevation.At(ix, iz) }

// RockTypeAt samples the frozen rock-type grid at a grid cell.
func (s *Snapshot) RockTypeAt(ix, iz int) RockType { return s.RockType.At(ix, iz) }

// MantleStressAt samples the frozen mantle-stress grid at a grid cell.
func (s *Snapshot) MantleStressAt(ix, iz int) float64 { return s.MantleStress.At(ix, iz) }

// SurfaceWaterAt returns the surface water depth, or 0 if this snapshot
// carries no water data.
func (s *Snapshot) SurfaceWaterAt(ix, iz int) float64 {
	w, ok := s.Water.Get()
	if !ok {
		return 0
	}
	return w.SurfaceWater.At(ix, iz)
}

// PrecipitationAt returns annual precipitation, or 0 if absent.
func (s *Snapshot) PrecipitationAt(ix, iz int) float64 {
	w, ok := s.Water.Get()
	if !ok {
		return 0
	}
	return w.Precipitation.At(ix, iz)
}

// GroundwaterAt returns groundwater table depth, or 0 if absent.
func (s *Snapshot) GroundwaterAt(ix, iz int) float64 {
	w, ok := s.Water.Get()
	if !ok {
		return 0
	}
	return w.Groundwater.At(ix, iz)
}

// FlowAt returns surface flow, or 0 if absent.
func (s *Snapshot) FlowAt(ix, iz int) float64 {
	w, ok := s.Water.Get()
	if !ok {
		return 0
	}
	return w.Flow.At(ix, iz)
}

// SedimentAt returns sediment load, or 0 if absent.
func (s *Snapshot) SedimentAt(ix, iz int) float64 {
	w, ok := s.Water.Get()
	if !ok {
		return 0
	}
	return w.Sediment.At(ix, iz)
}

// HasWaterData reports whether this snapshot captured the water fields.
func (s *Snapshot) HasWaterData() bool { return s.Water.IsPresent() }
