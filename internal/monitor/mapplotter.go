package monitor

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/tilemap/internal/fsutil"
	"github.com/banshee-data/tilemap/internal/grid"
)

// Colours follow the replay's on-screen palette.
var (
	mapColor        = color.RGBA{R: 0x00, G: 0x00, B: 0x80, A: 0xff} // navy
	scanColor       = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff} // blue
	trajectoryColor = color.RGBA{R: 0x00, G: 0x64, B: 0x00, A: 0xff} // dark green
	robotColor      = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	originColor     = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// MapPlotter renders the accumulated tile map of a sequence to PNG.
// Row numbers grow downward, so the Y axis is drawn inverted.
type MapPlotter struct {
	seq     *grid.Sequence
	mapSize grid.MapSize
	width   vg.Length
	height  vg.Length
}

// NewMapPlotter creates a plotter for seq. A zero mapSize lets the axes fit
// the data.
func NewMapPlotter(seq *grid.Sequence, mapSize grid.MapSize) *MapPlotter {
	return &MapPlotter{
		seq:     seq,
		mapSize: mapSize,
		width:   12 * vg.Inch,
		height:  8 * vg.Inch,
	}
}

// Plot builds the map as seen after frame upTo: every obstacle from frames
// 0..upTo, the trajectory, the obstacles of frame upTo and the robot.
func (mp *MapPlotter) Plot(upTo int) (*plot.Plot, error) {
	frame, err := mp.seq.Frame(upTo)
	if err != nil {
		return nil, err
	}
	seen, err := mp.seq.CumulativeObstacles(upTo)
	if err != nil {
		return nil, err
	}
	path, err := mp.seq.Trajectory(upTo)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Tile map, step %d of %d", upTo, mp.seq.Len()-1)
	p.X.Label.Text = "tile x"
	p.Y.Label.Text = "tile y"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())
	if mp.mapSize.Width > 0 && mp.mapSize.Height > 0 {
		p.X.Min, p.X.Max = 0, float64(mp.mapSize.Width)
		p.Y.Min, p.Y.Max = 0, float64(mp.mapSize.Height)
	}

	origin := mp.seq.Params().Origin.Tile()
	layers := []struct {
		name  string
		tiles []grid.Tile
		color color.Color
		shape draw.GlyphDrawer
		size  vg.Length
	}{
		{"map", seen.Tiles(), mapColor, draw.BoxGlyph{}, vg.Points(2)},
		{"scan", frame.Obstacles, scanColor, draw.BoxGlyph{}, vg.Points(2)},
		{"trajectory", path.Tiles(), trajectoryColor, draw.BoxGlyph{}, vg.Points(2)},
		{"origin", []grid.Tile{origin}, originColor, draw.CrossGlyph{}, vg.Points(4)},
		{"robot", []grid.Tile{frame.Pose.Tile()}, robotColor, draw.CircleGlyph{}, vg.Points(4)},
	}
	for _, l := range layers {
		if len(l.tiles) == 0 {
			continue
		}
		s, err := plotter.NewScatter(tilesToXYs(l.tiles))
		if err != nil {
			return nil, fmt.Errorf("plot %s: %w", l.name, err)
		}
		s.GlyphStyle.Color = l.color
		s.GlyphStyle.Shape = l.shape
		s.GlyphStyle.Radius = l.size
		p.Add(s)
		p.Legend.Add(l.name, s)
	}
	p.Legend.Top = true
	return p, nil
}

// WritePNG writes the map after frame upTo to w.
func (mp *MapPlotter) WritePNG(w io.Writer, upTo int) error {
	p, err := mp.Plot(upTo)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(mp.width, mp.height, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG writes the map after frame upTo to path on fsys. Nothing is
// created when the plot cannot be rendered.
func (mp *MapPlotter) SavePNG(fsys fsutil.FileSystem, path string, upTo int) error {
	var buf bytes.Buffer
	if err := mp.WritePNG(&buf, upTo); err != nil {
		return err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func tilesToXYs(tiles []grid.Tile) plotter.XYs {
	pts := make(plotter.XYs, len(tiles))
	for i, t := range tiles {
		pts[i] = plotter.XY{X: float64(t.X), Y: float64(t.Y)}
	}
	return pts
}
