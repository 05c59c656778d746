package rasterdump

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/render"
)

func TestNewSurfaceValidatesSize(t *testing.T) {
	if _, err := NewSurface(0, 100); err == nil {
		t.Error("expected an error for zero width")
	}
	if _, err := NewSurface(100, -1); err == nil {
		t.Error("expected an error for negative height")
	}
}

func TestRenderFrameToPNG(t *testing.T) {
	surface, err := NewSurface(400, 320)
	if err != nil {
		t.Fatal(err)
	}
	defer surface.Close()

	level := game.Campaign()[0]
	sim := game.NewSimulator(level, nil)
	f, err := fn.Parse("sin(x)", "")
	if err != nil {
		t.Fatal(err)
	}
	sim.AddGraph(f)

	driver := render.NewDriver(sim, surface, render.NewCompositor(render.NewMapper(20)), nil)
	driver.Tick(time.UnixMilli(1234))

	dir := t.TempDir()
	writer, err := NewFrameWriter(surface, dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.Save(); err != nil {
		t.Fatal(err)
	}
	if writer.Count() != 1 {
		t.Errorf("expected 1 saved frame, got %d", writer.Count())
	}

	info, err := os.Stat(filepath.Join(dir, "frame_0000.png"))
	if err != nil {
		t.Fatalf("frame file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("frame file is empty")
	}
}
