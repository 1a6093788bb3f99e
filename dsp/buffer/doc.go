// Package buffer provides the bounded sample store used while a channel is
// being observed. Ring keeps the most recent N samples in arrival order and
// hands out copies, so the analysis stages work on plain []float64 slices
// that no producer can touch.
package buffer
