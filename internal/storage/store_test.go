package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Step: 0, Time: 0, Energy: 49970, MomentumX: 56, MomentumY: 54},
			{Step: 1, Time: 0.01, Energy: 49970, MomentumX: 56, MomentumY: 54, Collisions: 1, Total: 1},
		},
		Final: []dynamo.Body{
			{ID: 0, Position: dynamo.Vec2{X: 152, Y: 151.5}, Velocity: dynamo.Vec2{X: 200, Y: 150}, Radius: 30, Mass: 1},
			{ID: 1, Position: dynamo.Vec2{X: 598.2, Y: 398.8}, Velocity: dynamo.Vec2{X: -180, Y: -120}, Radius: 25, Mass: 0.8},
		},
		Metrics:         map[string]float64{"energy": 49970},
		StepsTaken:      1,
		TotalCollisions: 1,
		EnergyDrift:     1e-15,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.GetPreset("classic")
	cfg.Seed = 42

	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "classic_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "classic" || meta.Seed != 42 || meta.Bodies != 2 || meta.Collisions != 1 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["energy"] != 49970 {
		t.Errorf("expected energy 49970, got %f", meta.Metrics["energy"])
	}
	if meta.Config == nil || meta.Config.Width != 800 {
		t.Error("config echo missing")
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Time != 0.01 || samples[1].Total != 1 {
		t.Errorf("unexpected sample %+v", samples[1])
	}

	records, err := st.LoadBodies(runID)
	if err != nil {
		t.Fatalf("load bodies failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(records))
	}
	if got := records[1].Body(); got != testResult().Final[1] {
		t.Errorf("expected %+v, got %+v", testResult().Final[1], got)
	}
	if math.Abs(records[0].Speed-250) > 1e-12 {
		t.Errorf("expected speed 250, got %f", records[0].Speed)
	}
}

func TestStoreUniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.GetPreset("classic")

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		id, err := st.Save(cfg, testResult())
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate run id %s", id)
		}
		seen[id] = true
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreList_Empty(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreList_SkipsBrokenRuns(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if _, err := st.Save(config.GetPreset("classic"), testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, _ := st.List()
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSeries("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(config.GetPreset("classic"), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := st.Export(runID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("write json failed: %v", err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Run.ID != runID || len(decoded.Samples) != 2 || len(decoded.Bodies) != 2 {
		t.Errorf("unexpected export %+v", decoded)
	}

	path := filepath.Join(t.TempDir(), "series.csv")
	if err := ExportCSV(path, data.Samples); err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	header := strings.SplitN(string(raw), "\n", 2)[0]
	if header != "step,time,energy,momentum_x,momentum_y,collisions,total_collisions" {
		t.Errorf("unexpected header %q", header)
	}
}
