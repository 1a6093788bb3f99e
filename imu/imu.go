// Package imu defines the inertial measurement message delivered by the
// ingestion transports and the scalar channels that can be analyzed.
//
// Messages mirror the sensor_msgs/Imu layout with snake_case JSON keys.
package imu

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// Header carries the acquisition time and sensor frame of a message.
type Header struct {
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frame_id,omitempty"`
}

// Quaternion is an orientation in x, y, z, w order.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Vector3 is a three-axis reading.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Message is one IMU sample.
type Message struct {
	Header             Header     `json:"header"`
	Orientation        Quaternion `json:"orientation"`
	AngularVelocity    Vector3    `json:"angular_velocity"`
	LinearAcceleration Vector3    `json:"linear_acceleration"`
}

// Decode parses a JSON-encoded message.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("imu: decode message: %w", err)
	}
	return msg, nil
}

// Yaw returns the rotation about z in radians, in [-pi, pi], using the
// static x-y-z Euler convention.
func (q Quaternion) Yaw() float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

// Channel selects the scalar extracted from each message.
type Channel int

// Channels.
const (
	AccelX Channel = iota
	AccelY
	AccelZ
	GyroX
	GyroY
	GyroZ
	Yaw
)

var channelNames = [...]string{"accel-x", "accel-y", "accel-z", "gyro-x", "gyro-y", "gyro-z", "yaw"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// Channels lists every channel in declaration order.
func Channels() []Channel {
	return []Channel{AccelX, AccelY, AccelZ, GyroX, GyroY, GyroZ, Yaw}
}

// ParseChannel maps a channel name to its Channel. Matching ignores case.
func ParseChannel(name string) (Channel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return AccelX, fmt.Errorf("imu: %w: unknown channel %q", core.ErrInvalidConfiguration, name)
}

// Extract returns the channel's value from msg.
func (c Channel) Extract(msg Message) float64 {
	switch c {
	case AccelX:
		return msg.LinearAcceleration.X
	case AccelY:
		return msg.LinearAcceleration.Y
	case AccelZ:
		return msg.LinearAcceleration.Z
	case GyroX:
		return msg.AngularVelocity.X
	case GyroY:
		return msg.AngularVelocity.Y
	case GyroZ:
		return msg.AngularVelocity.Z
	case Yaw:
		return msg.Orientation.Yaw()
	default:
		return math.NaN()
	}
}

// Unit is the ASD axis label for the channel.
func (c Channel) Unit() string {
	switch c {
	case AccelX, AccelY, AccelZ:
		return "m^2/s^4/Hz"
	default:
		return "rad^2/s^4/Hz"
	}
}
