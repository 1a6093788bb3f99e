package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// Table writes the summary of d as a two-column terminal table.
func Table(w io.Writer, d Document) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("IMU noise: %s", d.Channel))
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Samples", d.Samples},
		{"Sample rate (Hz)", fmt.Sprintf("%g", d.SampleRate)},
		{"Std dev", fmt.Sprintf("%.6g", d.StdDev)},
		{"Mean", fmt.Sprintf("%.6g", d.Time.Mean)},
		{"Peak-to-peak", fmt.Sprintf("%.6g", d.Time.PeakToPeak)},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"Q1 / Q3", fmt.Sprintf("%.6g / %.6g", d.Outliers.Q1, d.Outliers.Q3)},
		{"IQR fences", fmt.Sprintf("[%.6g, %.6g]", d.Outliers.LowerFence, d.Outliers.UpperFence)},
		{"IQR outliers", d.Outliers.Count},
		{"Outlier percentage", fmt.Sprintf("%.2f%%", d.Outliers.Percentage)},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"Resolution (Hz)", fmt.Sprintf("%.6g", d.Frequency.Resolution)},
		{"Peak frequency (Hz)", fmt.Sprintf("%.6g", d.Frequency.PeakFrequency)},
		{"Peak ASD (" + d.Unit + ")", fmt.Sprintf("%.6g", d.Frequency.PeakASD)},
		{"Peak ASD (dB)", fmt.Sprintf("%.2f", core.LinearPowerToDB(d.Frequency.PeakASD))},
		{"Noise RMS", fmt.Sprintf("%.6g", d.Frequency.NoiseRMS)},
		{"Chi-squared", fmt.Sprintf("%.6g (p=%g, dof=%g)", d.Confidence.ChiSquared, d.Confidence.Level, d.Confidence.DegreesOfFreedom)},
	})
	if d.SessionID != "" {
		tbl.AppendFooter(table.Row{"Session", d.SessionID})
	}

	tbl.Render()
	return nil
}
