package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/tilemap/internal/grid"
	"github.com/banshee-data/tilemap/internal/httputil"
	"github.com/banshee-data/tilemap/internal/security"
)

// echartsAssetsHost serves the echarts JavaScript for debug pages.
const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// parseUpTo reads the `upto` query param, defaulting to the last frame.
func (ws *WebServer) parseUpTo(r *http.Request) (int, error) {
	last := ws.dataset.Len() - 1
	upTo, err := httputil.QueryInt(r, "upto", last, 0)
	if err != nil {
		return 0, err
	}
	if upTo > last {
		return 0, fmt.Errorf("%w: upto %d, last frame is %d", grid.ErrFrameOutOfRange, upTo, last)
	}
	return upTo, nil
}

func writeUpToError(w http.ResponseWriter, err error) {
	if errors.Is(err, grid.ErrFrameOutOfRange) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.BadRequest(w, err.Error())
}

// handleMapScatter renders the tile map after frame `upto` as an HTML
// scatter chart. This is a debugging-only endpoint.
// Query params:
//   - upto (optional; defaults to the last frame)
func (ws *WebServer) handleMapScatter(w http.ResponseWriter, r *http.Request) {
	upTo, err := ws.parseUpTo(r)
	if err != nil {
		writeUpToError(w, err)
		return
	}

	seq := ws.dataset.Sequence()
	frame, err := seq.Frame(upTo)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	seen, _ := seq.CumulativeObstacles(upTo)
	path, _ := seq.Trajectory(upTo)

	xAxis := opts.XAxis{Type: "value", Name: "tile x", NameLocation: "middle", NameGap: 25}
	yAxis := opts.YAxis{Type: "value", Name: "tile y", NameLocation: "middle", NameGap: 30, Inverse: opts.Bool(true)}
	if ws.mapSize.Width > 0 && ws.mapSize.Height > 0 {
		xAxis.Min, xAxis.Max = 0, ws.mapSize.Width
		yAxis.Min, yAxis.Max = 0, ws.mapSize.Height
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tile map", Width: "1200px", Height: "800px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Tile map", Subtitle: fmt.Sprintf("dataset=%s step=%d/%d map=%d trajectory=%d", ws.dataset.ID[:8], upTo, seq.Len()-1, seen.Len(), path.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)

	scatter.AddSeries("map", tilesToScatter(seen.Tiles()),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4, Symbol: "rect"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#000080"}))
	scatter.AddSeries("scan", tilesToScatter(frame.Obstacles),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4, Symbol: "rect"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "blue"}))
	scatter.AddSeries("trajectory", tilesToScatter(path.Tiles()),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4, Symbol: "rect"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "darkgreen"}))
	scatter.AddSeries("robot", tilesToScatter([]grid.Tile{frame.Pose.Tile()}),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleMapPNG renders the tile map after frame `upto` as a PNG.
func (ws *WebServer) handleMapPNG(w http.ResponseWriter, r *http.Request) {
	upTo, err := ws.parseUpTo(r)
	if err != nil {
		writeUpToError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := ws.plotter.WritePNG(&buf, upTo); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	name := security.SanitizeFilename(strings.TrimSuffix(filepath.Base(ws.dataset.Path), filepath.Ext(ws.dataset.Path)))
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s_step%d.png", name, upTo)))
	_, _ = w.Write(buf.Bytes())
}

func tilesToScatter(tiles []grid.Tile) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(tiles))
	for _, t := range tiles {
		data = append(data, opts.ScatterData{Value: []interface{}{t.X, t.Y}})
	}
	return data
}
