package report

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/anthro.report/internal/anthro"
	"github.com/banshee-data/anthro.report/internal/facts"
)

// echartsAssetsPrefix lets deployments serve the echarts bundle locally
// instead of hitting the CDN from an air-gapped lab network.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// WarningHistogramChart renders the warning-code distribution of a batch
// summary as a bar chart. Codes are sorted so repeated renders of the same
// summary produce identical HTML.
func WarningHistogramChart(s facts.Summary) *charts.Bar {
	codes := make([]string, 0, len(s.WarningCounts))
	for code := range s.WarningCounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	y := make([]opts.BarData, 0, len(codes))
	for _, code := range codes {
		y = append(y, opts.BarData{Value: s.WarningCounts[code]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Warning Histogram", Theme: "dark", Width: "100%", Height: "480px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Warning Codes", Subtitle: fmt.Sprintf("cases=%d defined=%d", s.Processed, s.Defined)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(codes).AddSeries("warnings", y)
	return bar
}

// MethodUsageChart renders how often each loop-reconstruction method was the
// one that produced the reported circumference.
func MethodUsageChart(s facts.Summary) *charts.Bar {
	methods := make([]string, 0, len(s.MethodUsage))
	for m := range s.MethodUsage {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	y := make([]opts.BarData, 0, len(methods))
	for _, m := range methods {
		y = append(y, opts.BarData{Value: s.MethodUsage[m]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Method Usage", Theme: "dark", Width: "100%", Height: "480px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Loop Reconstruction Methods", Subtitle: fmt.Sprintf("cases=%d", s.Processed)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(methods).AddSeries("methods", y)
	return bar
}

// LoopScatterChart renders a reconstructed cross-section loop in its slicing
// plane. Axis ranges are symmetric around the loop centroid so the section
// keeps its aspect ratio on a square canvas.
func LoopScatterChart(loop anthro.Loop, title string) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(loop)+1)
	var cx, cy, maxAbs float64
	for _, p := range loop {
		cx += p.X
		cy += p.Y
	}
	if len(loop) > 0 {
		cx /= float64(len(loop))
		cy /= float64(len(loop))
	}
	for _, p := range loop {
		x := p.X - cx
		y := p.Y - cy
		if a := absMax(x, y); a > maxAbs {
			maxAbs = a
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y}})
	}
	// Close the loop visually.
	if len(loop) > 0 {
		data = append(data, opts.ScatterData{Value: []interface{}{loop[0].X - cx, loop[0].Y - cy}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d", len(loop))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("section", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	return scatter
}

func absMax(x, y float64) float64 {
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	if x > y {
		return x
	}
	return y
}

// renderer is the subset of go-echarts chart types we serve over HTTP.
type renderer interface {
	Render(w io.Writer) error
}

// WriteChart renders a chart into the response, buffering so a render
// failure can still produce a clean error status.
func WriteChart(w http.ResponseWriter, chart renderer) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
