// ABOUTME: Version constants for the voicebridge endpoint
// ABOUTME: Reported in the hello handshake and CLI output
package version

const (
	// Version is the software version reported to peers
	Version = "0.1.0"

	// Product is the product name
	Product = "VoiceBridge Endpoint"

	// Manufacturer identifies the project
	Manufacturer = "Resonate Protocol"
)
