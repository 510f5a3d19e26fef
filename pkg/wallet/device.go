package wallet

import "fmt"

// DeviceModel identifies a hardware device model. The set is closed; any
// other value on the wire is a protocol violation.
type DeviceModel string

const (
	DeviceModelBlue  DeviceModel = "blue"
	DeviceModelNanoS DeviceModel = "nanoS"
	DeviceModelNanoX DeviceModel = "nanoX"
)

// IsValid reports whether m is a member of the closed model set.
func (m DeviceModel) IsValid() bool {
	switch m {
	case DeviceModelBlue, DeviceModelNanoS, DeviceModelNanoX:
		return true
	}
	return false
}

// ParseDeviceModel validates a wire value against the closed model set.
func ParseDeviceModel(s string) (DeviceModel, error) {
	m := DeviceModel(s)
	if !m.IsValid() {
		return "", fmt.Errorf("device model %q: %w", s, ErrProtocol)
	}
	return m, nil
}

// DeviceDetails is a read-only wire shape describing the connected hardware
// device. No inverse serializer exists; the host is the only producer.
type DeviceDetails struct {
	ModelID DeviceModel `json:"modelId"`
	Version string      `json:"version"`
}

// ApplicationDetails is a read-only wire shape describing one application
// installed on the device.
type ApplicationDetails struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
