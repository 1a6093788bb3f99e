package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cwbudde/algo-vibration/analysis"
)

const (
	plotWidth  = "100%"
	plotHeight = "600px"
	lineWidth  = 2
	bandWidth  = 1
)

// PlotChart builds the log-log ASD chart with lower and upper band series.
// Points at zero frequency or with non-positive values cannot be drawn on
// log axes and are left out.
func PlotChart(r *analysis.Report, meta Meta) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "IMU ASD",
			Width:     plotWidth,
			Height:    plotHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Auto Spectral Density (ASD) and Confidence Interval",
			Subtitle: fmt.Sprintf("%s, %d samples at %g Hz", meta.Channel, r.Samples, r.SampleRate),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frequency (Hz)", Type: "log"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ASD (" + meta.Unit + ")", Type: "log"}),
	)

	freqs := r.Spectrum.Frequencies
	series := []struct {
		name   string
		values []float64
		width  float32
		dashed bool
	}{
		{"ASD", r.Spectrum.ASD, lineWidth, false},
		{"Lower bound", r.Confidence.Lower, bandWidth, true},
		{"Upper bound", r.Confidence.Upper, bandWidth, true},
	}

	for _, s := range series {
		style := opts.LineStyle{Width: s.width}
		if s.dashed {
			style.Type = "dashed"
		}
		line.AddSeries(s.name, logPoints(freqs, s.values),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(style),
		)
	}
	return line
}

// Plot writes the ASD chart as a standalone HTML page.
func Plot(w io.Writer, r *analysis.Report, meta Meta) error {
	if err := PlotChart(r, meta).Render(w); err != nil {
		return fmt.Errorf("render: plot: %w", err)
	}
	return nil
}

func logPoints(x, y []float64) []opts.LineData {
	n := min(len(x), len(y))
	out := make([]opts.LineData, 0, n)
	for i := 0; i < n; i++ {
		if x[i] <= 0 || y[i] <= 0 {
			continue
		}
		out = append(out, opts.LineData{Value: []float64{x[i], y[i]}})
	}
	return out
}
