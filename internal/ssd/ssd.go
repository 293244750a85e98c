// Package ssd reads health telemetry from solid-state storage devices by
// invoking vendor diagnostic utilities and parsing their text output.
package ssd

import "errors"

// NotAvailable is the placeholder reported for string fields that could not
// be extracted from tool output.
const NotAvailable = "N/A"

// ModelUnknown is reported when the generic probe ran but produced no
// model line at all, giving callers a stable display value.
const ModelUnknown = "Unknown"

var (
	// ErrNotAvailable indicates the vendor tool did not report the value
	// for this device. This is an expected, common outcome.
	ErrNotAvailable = errors.New("value not available")

	// ErrUnsupported indicates the implementation cannot answer the query
	// at all, as opposed to merely lacking data for this device.
	ErrUnsupported = errors.New("operation not supported")
)

// Reporter is the read-only query surface every SSD health implementation
// provides. All state is bound at construction; numeric queries return
// ErrNotAvailable (or ErrUnsupported) instead of panicking on missing data.
type Reporter interface {
	// Health returns the remaining usable life of the device in percent
	// (0-100), e.g. 83.5.
	Health() (float64, error)

	// Temperature returns the current device temperature in Celsius.
	Temperature() (float64, error)

	// Model returns the disk model as provided by the manufacturer.
	Model() string

	// Serial returns the disk serial number.
	Serial() string

	// Firmware returns the disk firmware version.
	Firmware() string

	// VendorOutput returns the raw text captured from the vendor specific
	// diagnostic tool, unmodified.
	VendorOutput() string

	// PowerOnHours returns the accumulated power-on hours.
	PowerOnHours() (int64, error)

	// PowerCycleCount returns the number of power cycles.
	PowerCycleCount() (int64, error)

	// TotalBadBlockCount returns the total number of bad flash blocks.
	TotalBadBlockCount() (int64, error)

	// EraseCountMax returns the maximum erase count over all blocks.
	EraseCountMax() (int64, error)

	// EraseCountAvg returns the average erase count over all blocks.
	EraseCountAvg() (int64, error)
}

// Unsupported is an embeddable default implementation whose queries all
// report ErrUnsupported. Partial implementations embed it so that queries
// they cannot answer are distinguished from data missing on a device.
type Unsupported struct{}

func (Unsupported) Health() (float64, error)           { return 0, ErrUnsupported }
func (Unsupported) Temperature() (float64, error)      { return 0, ErrUnsupported }
func (Unsupported) Model() string                      { return NotAvailable }
func (Unsupported) Serial() string                     { return NotAvailable }
func (Unsupported) Firmware() string                   { return NotAvailable }
func (Unsupported) VendorOutput() string               { return NotAvailable }
func (Unsupported) PowerOnHours() (int64, error)       { return 0, ErrUnsupported }
func (Unsupported) PowerCycleCount() (int64, error)    { return 0, ErrUnsupported }
func (Unsupported) TotalBadBlockCount() (int64, error) { return 0, ErrUnsupported }
func (Unsupported) EraseCountMax() (int64, error)      { return 0, ErrUnsupported }
func (Unsupported) EraseCountAvg() (int64, error)      { return 0, ErrUnsupported }

// optional holds a value that may be absent. The zero value is absent.
type optional[T any] struct {
	value T
	ok    bool
}

func present[T any](v T) optional[T] {
	return optional[T]{value: v, ok: true}
}

func (o optional[T]) get() (T, error) {
	if !o.ok {
		var zero T
		return zero, ErrNotAvailable
	}
	return o.value, nil
}
