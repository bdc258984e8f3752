package models

import "strconv"

// Device is a display discovered on the local network.
type Device struct {
	DeviceID        uint64 `json:"device_id"`
	DeviceName      string `json:"device_name"`
	DevicePrivateIP string `json:"device_private_ip"`
	DeviceMac       string `json:"device_mac"`
	Hardware        uint64 `json:"hardware"`
}

// ChannelID is the channel index reported by the device.
type ChannelID int

const (
	ChannelFaces       ChannelID = 0
	ChannelCloud       ChannelID = 1
	ChannelVisualizer  ChannelID = 2
	ChannelCustom      ChannelID = 3
	ChannelBlackScreen ChannelID = 4
	ChannelUnknown     ChannelID = -1 // never sent to a device
)

const maxKnownChannelCode = 4

// ChannelFromCode maps a raw SelectIndex to a ChannelID. Unrecognized codes
// become ChannelUnknown.
func ChannelFromCode(code int) ChannelID {
	if code < 0 || code > maxKnownChannelCode {
		return ChannelUnknown
	}
	return ChannelID(code)
}

// Known reports whether the channel may be sent to a device.
func (c ChannelID) Known() bool {
	return c >= ChannelFaces && c <= ChannelBlackScreen
}

func (c ChannelID) String() string {
	switch c {
	case ChannelFaces:
		return "Faces"
	case ChannelCloud:
		return "CloudChannel"
	case ChannelVisualizer:
		return "Visualizer"
	case ChannelCustom:
		return "Custom"
	case ChannelBlackScreen:
		return "BlackScreen"
	default:
		return "Unknown(" + strconv.Itoa(int(c)) + ")"
	}
}
