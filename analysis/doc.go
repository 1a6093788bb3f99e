// Package analysis turns one frozen signal into a noise Report.
//
// The spectral estimate and the outlier scan only read the signal and run
// concurrently; the confidence band waits for the estimate. A Report is
// returned whole or not at all, and when several stages fail the error of
// the earliest stage in spectrum, confidence, outlier order wins.
package analysis
