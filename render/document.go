package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-vibration/analysis"
)

// Document is the exported form of a report.
type Document struct {
	SessionID  string        `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Channel    string        `json:"channel" yaml:"channel"`
	Unit       string        `json:"unit" yaml:"unit"`
	Samples    int           `json:"samples" yaml:"samples"`
	SampleRate float64       `json:"sample_rate" yaml:"sample_rate"`
	StdDev     float64       `json:"std_dev" yaml:"std_dev"`
	Time       TimeDoc       `json:"time" yaml:"time"`
	Outliers   OutlierDoc    `json:"outliers" yaml:"outliers"`
	Frequency  FrequencyDoc  `json:"frequency" yaml:"frequency"`
	Confidence ConfidenceDoc `json:"confidence" yaml:"confidence"`
	Spectrum   *SpectrumDoc  `json:"spectrum,omitempty" yaml:"spectrum,omitempty"`
}

// TimeDoc holds time-domain figures.
type TimeDoc struct {
	Mean       float64 `json:"mean" yaml:"mean"`
	RMS        float64 `json:"rms" yaml:"rms"`
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	PeakToPeak float64 `json:"peak_to_peak" yaml:"peak_to_peak"`
}

// OutlierDoc holds the IQR outlier figures.
type OutlierDoc struct {
	Q1         float64 `json:"q1" yaml:"q1"`
	Q3         float64 `json:"q3" yaml:"q3"`
	IQR        float64 `json:"iqr" yaml:"iqr"`
	LowerFence float64 `json:"lower_fence" yaml:"lower_fence"`
	UpperFence float64 `json:"upper_fence" yaml:"upper_fence"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// FrequencyDoc holds the half-spectrum summary.
type FrequencyDoc struct {
	Bins          int     `json:"bins" yaml:"bins"`
	Resolution    float64 `json:"resolution_hz" yaml:"resolution_hz"`
	PeakFrequency float64 `json:"peak_frequency_hz" yaml:"peak_frequency_hz"`
	PeakASD       float64 `json:"peak_asd" yaml:"peak_asd"`
	Centroid      float64 `json:"centroid_hz" yaml:"centroid_hz"`
	BandPower     float64 `json:"band_power" yaml:"band_power"`
	NoiseRMS      float64 `json:"noise_rms" yaml:"noise_rms"`
}

// ConfidenceDoc describes the band parameters.
type ConfidenceDoc struct {
	Level            float64 `json:"level" yaml:"level"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom" yaml:"degrees_of_freedom"`
	ChiSquared       float64 `json:"chi_squared" yaml:"chi_squared"`
}

// SpectrumDoc carries the half-spectrum arrays.
type SpectrumDoc struct {
	Frequencies []float64 `json:"frequencies" yaml:"frequencies,flow"`
	PSD         []float64 `json:"psd" yaml:"psd,flow"`
	ASD         []float64 `json:"asd" yaml:"asd,flow"`
	Lower       []float64 `json:"lower" yaml:"lower,flow"`
	Upper       []float64 `json:"upper" yaml:"upper,flow"`
}

// Meta identifies what a report was computed from.
type Meta struct {
	SessionID string
	Channel   string
	Unit      string
}

// NewDocument flattens r. The spectrum arrays are included only when
// withSpectrum is set.
func NewDocument(r *analysis.Report, meta Meta, withSpectrum bool) Document {
	d := Document{
		SessionID:  meta.SessionID,
		Channel:    meta.Channel,
		Unit:       meta.Unit,
		Samples:    r.Samples,
		SampleRate: r.SampleRate,
		StdDev:     r.StdDev,
		Time: TimeDoc{
			Mean:       r.Time.Mean,
			RMS:        r.Time.RMS,
			Min:        r.Time.Min,
			Max:        r.Time.Max,
			PeakToPeak: r.Time.PeakToPeak,
		},
		Outliers: OutlierDoc{
			Q1:         r.Outliers.Q1,
			Q3:         r.Outliers.Q3,
			IQR:        r.Outliers.IQR,
			LowerFence: r.Outliers.LowerFence,
			UpperFence: r.Outliers.UpperFence,
			Count:      r.Outliers.Count,
			Percentage: r.Outliers.Percentage,
		},
		Frequency: FrequencyDoc{
			Bins:          r.Spectrum.Len(),
			Resolution:    r.Frequency.Resolution,
			PeakFrequency: r.Frequency.PeakFrequency,
			PeakASD:       r.Frequency.PeakASD,
			Centroid:      r.Frequency.Centroid,
			BandPower:     r.Frequency.BandPower,
			NoiseRMS:      r.Frequency.NoiseRMS,
		},
		Confidence: ConfidenceDoc{
			Level:            r.Confidence.Level,
			DegreesOfFreedom: r.Confidence.DegreesOfFreedom,
			ChiSquared:       r.Confidence.ChiSquared,
		},
	}
	if withSpectrum {
		d.Spectrum = &SpectrumDoc{
			Frequencies: r.Spectrum.Frequencies,
			PSD:         r.Spectrum.PSD,
			ASD:         r.Spectrum.ASD,
			Lower:       r.Confidence.Lower,
			Upper:       r.Confidence.Upper,
		}
	}
	return d
}

// JSON writes d as indented JSON.
func JSON(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("render: json: %w", err)
	}
	return nil
}

// YAML writes d as YAML.
func YAML(w io.Writer, d Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("render: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render: yaml: %w", err)
	}
	return nil
}
