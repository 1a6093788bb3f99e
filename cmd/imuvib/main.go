// Command imuvib characterizes the vibration noise of one IMU channel.
//
// Usage:
//
//	imuvib run [flags]              collect from MQTT for one window
//	imuvib replay [flags] <file>    analyze a JSON-lines recording
//	imuvib version
//
// Examples:
//
//	imuvib run --channel accel-z --duration 30s
//	imuvib run --broker tcp://robot:1883 --topic /imu --format json
//	imuvib replay --channel gyro-z --plot asd.html capture.jsonl
//
// Settings come from .imuvib.yaml (or --config), IMUVIB_* environment
// variables and flags, in increasing precedence.
package main

import (
	"fmt"
	"os"
)

// Set by the linker.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
