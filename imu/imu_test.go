package imu

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

func TestParseChannelRoundTrip(t *testing.T) {
	for _, c := range Channels() {
		got, err := ParseChannel(c.String())
		if err != nil {
			t.Fatalf("ParseChannel(%q): %v", c, err)
		}
		if got != c {
			t.Fatalf("ParseChannel(%q) = %v", c, got)
		}
	}
	if got, err := ParseChannel(" GYRO-Z "); err != nil || got != GyroZ {
		t.Fatalf("ParseChannel(GYRO-Z) = %v, %v", got, err)
	}
	if _, err := ParseChannel("mag-x"); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("ParseChannel(mag-x) error = %v", err)
	}
}

func TestExtract(t *testing.T) {
	msg := Message{
		AngularVelocity:    Vector3{X: 4, Y: 5, Z: 6},
		LinearAcceleration: Vector3{X: 1, Y: 2, Z: 3},
		Orientation:        Quaternion{W: 1},
	}
	want := map[Channel]float64{AccelX: 1, AccelY: 2, AccelZ: 3, GyroX: 4, GyroY: 5, GyroZ: 6, Yaw: 0}
	for c, w := range want {
		if got := c.Extract(msg); got != w {
			t.Errorf("%v.Extract() = %v, want %v", c, got, w)
		}
	}
	if !math.IsNaN(Channel(42).Extract(msg)) {
		t.Error("unknown channel should extract NaN")
	}
}

func TestYawOfZRotation(t *testing.T) {
	for _, angle := range []float64{0, 0.3, -1.2, math.Pi / 2, 3} {
		q := Quaternion{Z: math.Sin(angle / 2), W: math.Cos(angle / 2)}
		if got := q.Yaw(); !core.NearlyEqual(got, angle, 1e-12) {
			t.Errorf("Yaw(%v) = %v", angle, got)
		}
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`{"header":{"stamp":"2024-05-01T12:00:00Z","frame_id":"imu_link"},
		"orientation":{"x":0,"y":0,"z":0,"w":1},
		"angular_velocity":{"x":0.01,"y":0,"z":-0.02},
		"linear_acceleration":{"x":0.12,"y":-0.03,"z":9.81}}`)
	msg, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Header.FrameID != "imu_link" || msg.LinearAcceleration.Z != 9.81 || msg.AngularVelocity.Z != -0.02 {
		t.Fatalf("Decode() = %+v", msg)
	}
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatal("Decode accepted truncated input")
	}
}

func TestUnit(t *testing.T) {
	if AccelY.Unit() != "m^2/s^4/Hz" || GyroX.Unit() != "rad^2/s^4/Hz" || Yaw.Unit() != "rad^2/s^4/Hz" {
		t.Fatal("unexpected units")
	}
}
