package viz

import (
	"strings"
	"testing"

	"phaseplane/internal/model"
	"phaseplane/internal/portrait"
)

func TestCanvas_PlotInsideBounds(t *testing.T) {
	c := NewCanvas(10, 5, 0, 1, 0, 1)
	c.Plot(0.5, 0.5)

	if !strings.ContainsFunc(c.String(), func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Error("plot left no dot on the canvas")
	}
}

func TestCanvas_PlotOutsideBoundsIgnored(t *testing.T) {
	c := NewCanvas(10, 5, 0, 1, 0, 1)
	c.Plot(2, 2)
	c.Plot(-1, 0.5)

	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-bounds plot modified the canvas")
			}
		}
	}
}

func TestCanvas_MarkSurvivesPlot(t *testing.T) {
	c := NewCanvas(10, 5, 0, 1, 0, 1)
	c.Mark(0.5, 0.5, '●')
	c.Plot(0.5, 0.5) // must not overwrite the marker

	if !strings.ContainsRune(c.String(), '●') {
		t.Error("marker lost after plotting")
	}
}

func TestCanvas_PlotLine(t *testing.T) {
	c := NewCanvas(20, 10, 0, 1, 0, 1)
	c.PlotLine(0, 0, 1, 1)

	dots := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r > 0x2800 && r <= 0x28FF {
				dots++
			}
		}
	}
	if dots < 10 {
		t.Errorf("diagonal line produced only %d cells", dots)
	}
}

func TestRenderPortrait(t *testing.T) {
	opts := portrait.DefaultOptions()
	opts.StreamDensity = 2
	pr, err := portrait.Build(model.Classic(), opts)
	if err != nil {
		t.Fatal(err)
	}

	out := RenderPortrait(pr, 60, 20)
	if !strings.Contains(out, "phase plane") {
		t.Error("missing header")
	}
	if !strings.ContainsRune(out, '●') {
		t.Error("missing coexistence marker")
	}
	if !strings.ContainsRune(out, '○') {
		t.Error("missing trivial marker")
	}
}
