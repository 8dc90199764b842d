// Command geoworldserver is a host-side demo: it runs a GeologicalSimulator
// in the background and streams its snapshots to websocket clients as JSON
// frames. It is an external consumer of the core library, which itself has
// no graphics or network surface.
package main

import (
	"flag"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voxelcastle/geosim/config"
	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/simulation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // demo server; no origin restriction
	},
}

// frame is the wire format sent to every client: a flattened view of
// core.Snapshot that survives JSON marshaling (Snapshot.Water is an
// Optional[T] with unexported fields and would marshal to "{}").
type frame struct {
	Type                string  `json:"type"`
	StepIndex           int     `json:"stepIndex"`
	SimulationTimeYears float64 `json:"simulationTimeYears"`
	PhaseDescription    string  `json:"phaseDescription"`
	CompletionFraction  float64 `json:"completionFraction"`

	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Spacing float64   `json:"spacing"`
	Elevation []float64 `json:"elevation"`
	RockType  []uint8   `json:"rockType"`

	HasWater      bool      `json:"hasWater"`
	SurfaceWater  []float64 `json:"surfaceWater,omitempty"`
	Precipitation []float64 `json:"precipitation,omitempty"`
}

func frameFromSnapshot(snap *core.Snapshot) frame {
	f := frame{
		Type:                "snapshot",
		StepIndex:           snap.StepIndex,
		SimulationTimeYears: snap.SimulationTimeYears,
		PhaseDescription:    snap.PhaseDescription,
		CompletionFraction:  snap.CompletionFraction,
		Width:               snap.Elevation.Width,
		Height:              snap.Elevation.Height,
		Spacing:             snap.Elevation.Spacing,
		Elevation:           snap.Elevation.Data,
	}
	f.RockType = make([]uint8, len(snap.RockType.Data))
	for i, r := range snap.RockType.Data {
		f.RockType[i] = uint8(r)
	}
	if w, ok := snap.Water.Get(); ok {
		f.HasWater = true
		f.SurfaceWater = w.SurfaceWater.Data
		f.Precipitation = w.Precipitation.Data
	}
	return f
}

type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *hub) broadcast(log zerolog.Logger, f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, mu := range h.clients {
		mu.Lock()
		err := conn.WriteJSON(f)
		mu.Unlock()
		if err != nil {
			log.Warn().Err(err).Msg("websocket write failed, dropping client")
			conn.Close()
		}
	}
}

// dequeueAndBroadcastLoop polls the Runner's bounded snapshot queue rather
// than hooking the simulator's callback directly, since that callback is
// already claimed by the Runner's own publish queue, and relays whatever
// it finds to every connected websocket client.
func dequeueAndBroadcastLoop(runner *simulation.Runner, h *hub, log zerolog.Logger) {
	for {
		snap := runner.DequeueSnapshot()
		if snap == nil {
			if !runner.IsRunning() {
				return
			}
			time.Sleep(50 * time.Millisecond)
			continue
		}
		h.broadcast(log, frameFromSnapshot(snap))
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	worldSizeKm := flag.Float64("world-size-km", 1024, "world size in kilometers")
	seed := flag.Int64("seed", 1, "simulation seed")
	preset := flag.String("preset", "balanced", "quality preset: performance|balanced|quality|ultra|custom")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg := config.Config{Preset: config.Preset(*preset), Custom: config.DefaultCustomSettings()}
	cfg.Normalize()

	sink := diagnostics.NewZerologSink(log, 20)
	sim := simulation.New(*worldSizeKm, cfg, sink)
	sim.Initialize(*seed)

	h := newHub()
	runner := simulation.NewRunner(sim)
	runner.Start()
	go dequeueAndBroadcastLoop(runner, h, log)

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		h.add(conn)
		defer h.remove(conn)

		if latest := runner.LatestSnapshot(); latest != nil {
			conn.WriteJSON(frameFromSnapshot(latest))
		}

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if pause, ok := msg["pause"].(bool); ok {
				if pause {
					runner.Pause()
				} else {
					runner.Resume()
				}
			}
		}
	})

	log.Info().Str("addr", *addr).Msg("geoworldserver listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
