// Package models defines the shared state and error types for the codec daemon.
package models

// Status is the user-facing codec state: the last-known volume and input
// gain percentages. Both are write-through caches — the authoritative value
// lives in the hardware registers, and every successful set or get refreshes
// the cached copy.
type Status struct {
	// Volume is the output volume, 0-100. 0 is mute.
	Volume int `json:"vol"`
	// Gain is the input (ADC) gain, 0-100.
	Gain int `json:"input_gain"`
}

// DefaultStatus returns the bring-up defaults applied before the stored
// configuration (if any) is pushed to hardware.
func DefaultStatus() Status {
	return Status{Volume: 50, Gain: 50}
}

// Info describes the daemon and the device it controls.
type Info struct {
	Model      string `json:"model"`
	Codec      string `json:"codec"`
	Version    string `json:"version"`
	Mock       bool   `json:"mock"`
	Transport  string `json:"transport"`
	ConfigPath string `json:"config_path"`
}
