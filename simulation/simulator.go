// Package simulation owns the GeologicalSimulator: the interleaved driver
// that allocates every field, seeds it via a continent.Seeder, and walks
// the fixed per-tick engine order, plus the background Runner that wraps
// it in a worker-thread/snapshot-queue model.
package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/voxelcastle/geosim/config"
	"github.com/voxelcastle/geosim/continent"
	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/noisefield"
	"github.com/voxelcastle/geosim/physics"
)

// State is the simulator's lifecycle state machine.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StatePaused
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// cellSpacingM is the fallback per-cell spacing used when the world size is
// not positive; otherwise Initialize divides the world size by the preset's
// resolution, so the grid spans exactly the requested world.
const cellSpacingM = 1000.0

// Simulator is the GeologicalSimulator: owns every field, the three
// process engines, and the snapshot/progress hooks a host observes.
type Simulator struct {
	cfg        config.Config
	worldSizeM float64
	seed       int64

	resolution int
	spacing    float64
	totalSteps int
	currentStep int

	state               State
	simulationTimeYears float64
	lastSnapshotWall    time.Time

	elevation         *field.NumericField
	rockType          *field.CategoricalField[core.RockType]
	rockHardness      *field.NumericField
	mantleStress      *field.NumericField
	crustStress       *field.NumericField
	crustalThickness  *field.NumericField
	mantleTemperature *field.NumericField
	isostasy          *field.NumericField
	waterFlow         *field.NumericField
	precipitation     *field.NumericField
	surfaceWater      *field.NumericField
	groundwater       *field.NumericField
	sediment          *field.NumericField
	springFlow        *field.NumericField
	erosionRate       *field.NumericField

	tectonic *physics.TectonicEngine
	erosion  *physics.ErosionEngine
	water    *physics.WaterSystemSimulator

	plates []continent.Plate
	rivers []continent.River
	ridges []continent.Ridge

	diagnostics diagnostics.Sink

	progressCallback func(core.PhaseInfo)
	snapshotCallback func(*core.Snapshot)

	lastStepDurationMs float64
}

// New constructs a Simulator for the given world size (kilometers) and
// config; it performs no allocation until Initialize is called.
func New(worldSizeKm float64, cfg config.Config, sink diagnostics.Sink) *Simulator {
	cfg.Normalize()
	if sink == nil {
		sink = diagnostics.NoopSink{}
	}
	return &Simulator{
		cfg:         cfg,
		worldSizeM:  worldSizeKm * 1000,
		diagnostics: sink,
		state:       StateUninitialized,
	}
}

// State reports the current lifecycle state.
func (s *Simulator) State() State { return s.state }

// IsComplete reports whether the step budget has been exhausted.
func (s *Simulator) IsComplete() bool { return s.state == StateComplete }

// IsPaused reports whether the simulator is paused.
func (s *Simulator) IsPaused() bool { return s.state == StatePaused }

// SetProgressCallback registers fn to be invoked after every step.
func (s *Simulator) SetProgressCallback(fn func(core.PhaseInfo)) { s.progressCallback = fn }

// SetSnapshotCallback registers fn to be invoked whenever a periodic or
// final snapshot is produced.
func (s *Simulator) SetSnapshotCallback(fn func(*core.Snapshot)) { s.snapshotCallback = fn }

// Plates, Rivers and Ridges expose the continent generator's retained
// templates for query.
func (s *Simulator) Plates() []continent.Plate { return s.plates }
func (s *Simulator) Rivers() []continent.River { return s.rivers }
func (s *Simulator) Ridges() []continent.Ridge { return s.ridges }

// Initialize allocates every field at the preset-chosen resolution, seeds
// them via the configured continent.Seeder, and fills the derived fields.
// A second call is a no-op.
func (s *Simulator) Initialize(seed int64) {
	if s.state != StateUninitialized {
		return
	}
	s.seed = seed
	s.resolution = s.cfg.Resolution()
	s.spacing = cellSpacingM
	if s.worldSizeM > 0 {
		s.spacing = s.worldSizeM / float64(s.resolution)
	}
	s.totalSteps = s.cfg.StepBudget()

	s.allocateFields()
	s.buildEngines()
	s.seedFields()
	s.fillDerivedFields()

	s.state = StateInitialized
	s.currentStep = 0
	s.simulationTimeYears = 0
	s.lastSnapshotWall = time.Now()
}

func (s *Simulator) allocateFields() {
	r, sp := s.resolution, s.spacing
	s.elevation = field.NewNumericField(r, r, sp)
	s.rockType = field.NewCategoricalField[core.RockType](r, r, sp)
	s.rockHardness = field.NewNumericField(r, r, sp)
	s.mantleStress = field.NewNumericField(r, r, sp)
	s.crustStress = field.NewNumericField(r, r, sp)
	s.crustalThickness = field.NewNumericField(r, r, sp)
	s.mantleTemperature = field.NewNumericField(r, r, sp)
	s.isostasy = field.NewNumericField(r, r, sp)
	s.waterFlow = field.NewNumericField(r, r, sp)
	s.precipitation = field.NewNumericField(r, r, sp)
	s.surfaceWater = field.NewNumericField(r, r, sp)
	s.groundwater = field.NewNumericField(r, r, sp)
	s.sediment = field.NewNumericField(r, r, sp)
	s.springFlow = field.NewNumericField(r, r, sp)
	s.erosionRate = field.NewNumericField(r, r, sp)
}

func (s *Simulator) buildEngines() {
	s.tectonic = physics.NewTectonicEngine(s.diagnostics, s.seed)
	s.erosion = physics.NewErosionEngine(s.diagnostics)
	s.water = physics.NewWaterSystemSimulator(s.seed)
}

func (s *Simulator) coastlineNoiseSource() noisefield.Source {
	if s.cfg.Custom.CoastlineNoiseBackend == config.NoiseBackendPerlin {
		return noisefield.NewPerlinSource(s.seed, 3e-5)
	}
	return noisefield.NewHashSource(s.seed)
}

func (s *Simulator) seeder() continent.Seeder {
	if s.cfg.Custom.SeedingStrategy == config.SeedingVoronoi {
		return continent.NewVoronoiSeeder(s.coastlineNoiseSource())
	}
	return continent.NewFractalContinentGenerator(s.coastlineNoiseSource(), s.seed)
}

func (s *Simulator) seedFields() {
	params := continent.Params{
		WorldSizeM:       s.worldSizeM,
		Seed:             s.seed,
		TargetContinents: s.cfg.Custom.NumContinents,
		OceanRatio:       s.cfg.Custom.MinOceanCoverage / 100,
	}
	result := s.seeder().Seed(s.elevation, s.rockType, s.mantleStress, params)
	s.plates = result.Plates
	s.rivers = result.Rivers
	s.ridges = result.Ridges
}

func (s *Simulator) fillDerivedFields() {
	r := s.resolution
	for iz := 0; iz < r; iz++ {
		for ix := 0; ix < r; ix++ {
			s.rockHardness.Set(ix, iz, s.rockType.Get(ix, iz).Hardness())
		}
	}
	s.crustalThickness.Fill(core.CrustalThicknessStd)
	s.mantleTemperature.Fill(1300)
	s.groundwater.Fill(50)
	s.waterFlow.Clear()
	s.surfaceWater.Clear()
	s.precipitation.Clear()
	s.sediment.Clear()
	s.springFlow.Clear()
	s.erosionRate.Clear()
	s.crustStress.Clear()
	s.isostasy.Clear()
}

// timescale returns the configured τ_* value multiplied by the custom
// time-scale multiplier.
func (s *Simulator) timescale(base float64) float64 {
	return base * s.cfg.Custom.TimeScaleMultiplier
}

// Step advances the simulation by one tick of the interleaved loop. It
// returns false once the step budget is exhausted (no-op from then on)
// or while paused/uninitialized.
func (s *Simulator) Step() bool {
	if s.state == StateUninitialized || s.state == StatePaused || s.state == StateComplete {
		return false
	}
	if s.state == StateInitialized {
		s.state = StateRunning
	}

	start := time.Now()

	dtTectMyr := s.timescale(core.TectonicTimeScale) * core.BaseTimestepYears / 1e6
	dtVolcMyr := s.timescale(core.VolcanicTimeScale) * core.BaseTimestepYears / 1e6
	dtEroKyr := s.timescale(core.ErosionTimeScale) * core.BaseTimestepYears / 1000
	dtWaterKyr := s.timescale(core.WaterTimeScale) * core.BaseTimestepYears / 1000
	dtDetailKyr := s.timescale(core.DetailTimeScale) * core.BaseTimestepYears / 1000

	tfs := &physics.TectonicFieldSet{
		MantleStress:      s.mantleStress,
		CrustStress:       s.crustStress,
		Elevation:         s.elevation,
		CrustalThickness:  s.crustalThickness,
		MantleTemperature: s.mantleTemperature,
		Isostasy:          s.isostasy,
		RockType:          s.rockType,
		RockHardness:      s.rockHardness,
	}
	efs := &physics.ErosionFieldSet{
		Elevation:     s.elevation,
		RockType:      s.rockType,
		RockHardness:  s.rockHardness,
		WaterFlow:     s.waterFlow,
		Precipitation: s.precipitation,
		SurfaceWater:  s.surfaceWater,
		Sediment:      s.sediment,
		ErosionRate:   s.erosionRate,
	}
	wfs := &physics.WaterFieldSet{
		Elevation:     s.elevation,
		RockType:      s.rockType,
		Precipitation: s.precipitation,
		SurfaceWater:  s.surfaceWater,
		Groundwater:   s.groundwater,
		Sediment:      s.sediment,
		SpringFlow:    s.springFlow,
		WaterFlow:     s.waterFlow,
	}

	// 1. Tectonic.
	s.tectonic.MantleConvection(tfs, dtTectMyr)
	s.tectonic.PlateMovement(tfs, dtTectMyr)
	s.tectonic.MountainBuilding(tfs, dtTectMyr)

	// 2. Volcanic.
	s.tectonic.VolcanicActivity(tfs, dtVolcMyr)

	// 3. Erosion.
	if s.cfg.Custom.EnableChemicalWeathering {
		s.erosion.ChemicalWeathering(efs, dtEroKyr, 1.0)
	}
	s.erosion.PhysicalErosion(efs, dtEroKyr)
	s.erosion.WaterDrivenErosion(efs, dtEroKyr)
	s.erosion.SedimentTransport(efs, dtEroKyr)
	s.erosion.ErosionUpliftBalance(efs, dtEroKyr)

	// 4. Glacial, every 5 steps.
	if s.cfg.Custom.EnableGlacialFeatures && s.currentStep%5 == 0 {
		s.erosion.GlacialCarving(efs, dtEroKyr*5)
	}

	// 5. Water.
	s.water.Precipitation(wfs)
	s.water.SurfaceAccumulation(wfs, dtWaterKyr)
	s.water.RiverFormation(wfs, dtWaterKyr)
	s.erosion.RiverCarving(efs, dtWaterKyr)
	s.water.Groundwater(wfs, dtWaterKyr)
	s.water.Springs(wfs)
	if s.currentStep%3 == 0 {
		s.water.FloodPlains(wfs, dtWaterKyr*3)
		s.water.Lakes(wfs, dtWaterKyr*3)
	}
	if s.currentStep%2 == 0 {
		s.water.Wetlands(wfs, dtWaterKyr*2)
	}

	// 6. Cave-water coupling.
	if s.cfg.Custom.EnableCaveSystems {
		s.water.CaveWaterCoupling(wfs, dtWaterKyr)
	}

	// 7. Detail.
	s.erosion.MicroWeathering(efs, dtDetailKyr)
	s.erosion.SedimentDeposition(efs, dtDetailKyr)
	if s.currentStep%10 == 0 {
		s.erosion.SedimentBudgetReport(efs)
	}

	// 8. Isostasy, every 10 steps.
	if s.currentStep%10 == 0 {
		s.tectonic.IsostasyAdjustment(tfs, dtTectMyr*10)
	}

	s.currentStep++
	s.simulationTimeYears += core.BaseTimestepYears
	s.lastStepDurationMs = float64(time.Since(start).Microseconds()) / 1000.0

	if s.currentStep >= s.totalSteps {
		s.state = StateComplete
		s.emitSnapshot("Complete", 1.0)
	} else if time.Since(s.lastSnapshotWall) >= 500*time.Millisecond {
		pct := float64(s.currentStep) / float64(s.totalSteps)
		s.emitSnapshot(percentLabel(pct), pct)
		s.lastSnapshotWall = time.Now()
	}

	s.reportProgress()
	return !s.IsComplete()
}

func percentLabel(fraction float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(fraction*100)))
}

// Pause sets the paused flag.
func (s *Simulator) Pause() {
	if s.state == StateRunning {
		s.state = StatePaused
	}
}

// Resume clears the paused flag.
func (s *Simulator) Resume() {
	if s.state == StatePaused {
		s.state = StateRunning
	}
}

func (s *Simulator) reportProgress() {
	if s.progressCallback == nil {
		return
	}
	s.progressCallback(core.PhaseInfo{
		Phase:         core.PhaseDetail,
		PhaseProgress: 1.0,
		TotalProgress: float64(s.currentStep) / float64(s.totalSteps),
		ProcessName:   "step",
		Metrics: core.PerformanceMetrics{
			AverageStepTimeMs: s.lastStepDurationMs,
		},
	})
}

func (s *Simulator) emitSnapshot(phaseDesc string, completionFraction float64) {
	if s.snapshotCallback == nil {
		return
	}
	s.snapshotCallback(s.buildSnapshot(phaseDesc, completionFraction))
}

func (s *Simulator) buildSnapshot(phaseDesc string, completionFraction float64) *core.Snapshot {
	snap := core.NewSnapshot()
	snap.Elevation = toScalarGrid(s.elevation)
	snap.RockType = toRockGrid(s.rockType)
	snap.MantleStress = toScalarGrid(s.mantleStress)
	snap.Water = core.Some(core.WaterSnapshot{
		SurfaceWater:  toScalarGrid(s.surfaceWater),
		Precipitation: toScalarGrid(s.precipitation),
		Groundwater:   toScalarGrid(s.groundwater),
		Flow:          toScalarGrid(s.waterFlow),
		Sediment:      toScalarGrid(s.sediment),
	})
	snap.SimulationTimeYears = s.simulationTimeYears
	snap.PhaseDescription = phaseDesc
	snap.StepIndex = s.currentStep
	snap.CompletionFraction = completionFraction
	snap.GenerationCostMs = s.lastStepDurationMs
	return snap
}

func toScalarGrid(f *field.NumericField) core.ScalarGrid {
	w, h, sp, data := f.Snapshot()
	return core.ScalarGrid{Width: w, Height: h, Spacing: sp, Data: data}
}

func toRockGrid(f *field.CategoricalField[core.RockType]) core.RockGrid {
	w, h, sp, data := f.Snapshot()
	return core.RockGrid{Width: w, Height: h, Spacing: sp, Data: data}
}

// SampleAt is the read-only gather across all fields.
func (s *Simulator) SampleAt(x, z float64) core.GeologicalSample {
	elev := s.elevation.SampleAt(x, z)
	rock := s.rockType.SampleAt(x, z)
	stress := s.mantleStress.SampleAt(x, z)
	flow := s.waterFlow.SampleAt(x, z)
	precip := s.precipitation.SampleAt(x, z)
	groundwater := s.groundwater.SampleAt(x, z)
	spring := s.springFlow.SampleAt(x, z)

	const baseSeaLevelTempC = 15.0
	temp := core.TemperatureFromElevation(baseSeaLevelTempC, elev)

	return core.GeologicalSample{
		Elevation:    elev,
		RockType:     rock,
		RockHardness: rock.Hardness(),
		WaterFlow:    math.Min(flow, 10),
		Stress:       core.Clamp(stress, 10),
		Temperature:  temp,
		Rainfall:     precip,

		HasJoints:      s.cfg.Custom.EnableJointSystems && rock.Hardness() > 6,
		HasCaves:       s.cfg.Custom.EnableCaveSystems && rock.IsKarstic() && groundwater < 50,
		HasQuartzVeins: rock == core.MetamorphicQuartzite,
		HasWetlands:    elev > 0 && elev < 50 && flow < 0.5,
		HasSprings:     spring > 0,
		HasLakes:       s.surfaceWater.SampleAt(x, z) > 5 && flow < 0.1,
		HasRivers:      flow > 0.5,
	}
}
