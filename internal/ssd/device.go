package ssd

import (
	"context"
	"strings"

	"ssdhealthagent/internal/logger"
)

// Device is a best-effort health snapshot of one physical storage device.
// It is fully populated once, synchronously, during New and never mutated
// afterward; re-querying a device means constructing a new Device.
type Device struct {
	path   string
	runner Runner

	model    string
	serial   string
	firmware string

	genericOut string
	vendorOut  string

	health             optional[float64]
	temperature        optional[float64]
	powerOnHours       optional[int64]
	powerCycleCount    optional[int64]
	totalBadBlockCount optional[int64]
	eraseCountMax      optional[int64]
	eraseCountAvg      optional[int64]
}

// Option customizes Device construction.
type Option func(*Device)

// WithRunner replaces the process runner used for the diagnostic probes.
// Tests use this to feed canned tool transcripts.
func WithRunner(r Runner) Option {
	return func(d *Device) { d.runner = r }
}

// New probes the device at devicePath and returns its health snapshot.
// Construction always succeeds: a missing or failing diagnostic tool and
// unparseable output degrade to not-available fields, never to an error.
// New blocks for the duration of up to two external command invocations.
func New(ctx context.Context, devicePath string, opts ...Option) *Device {
	d := &Device{
		path:      devicePath,
		runner:    execRunner{},
		model:     NotAvailable,
		serial:    NotAvailable,
		firmware:  NotAvailable,
		vendorOut: NotAvailable,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.probe(ctx)
	return d
}

// probe runs the linear construction flow: generic probe, model detection,
// vendor dispatch, vendor probe, vendor parse.
func (d *Device) probe(ctx context.Context) {
	log := logger.WithComponent("ssd")

	generic := vendorUtilities[vendorGeneric]
	d.genericOut = d.runner.Run(ctx, generic.cmdline(d.path)...)
	d.parseGenericInfo()

	if d.model == NotAvailable {
		// The probe ran but gave no model line at all; normalize so that
		// callers always have a stable display value.
		d.model = ModelUnknown
		log.Debug().Str("device", d.path).Msg("Device model not detectable")
		return
	}

	key := dispatchKey(d.model)
	util, ok := vendorUtilities[key]
	if !ok {
		// No handler registered for this disk model. Vendor specific
		// fields stay not-available; this is a normal outcome.
		log.Debug().Str("device", d.path).Str("model", d.model).Msg("No vendor utility for model")
		return
	}

	d.vendorOut = d.runner.Run(ctx, util.cmdline(d.path)...)
	util.parse(d, d.vendorOut)

	log.Debug().
		Str("device", d.path).
		Str("model", d.model).
		Str("vendor", key).
		Msg("Vendor probe completed")
}

func (d *Device) parseGenericInfo() {
	if v, ok := matchFirst(reDeviceModel, d.genericOut); ok {
		d.model = v
	}
	if v, ok := matchFirst(reSerialNumber, d.genericOut); ok {
		d.serial = v
	}
	if v, ok := matchFirst(reFirmwareVersion, d.genericOut); ok {
		d.firmware = v
	}
}

// dispatchKey is the first whitespace-delimited token of the model string.
func dispatchKey(model string) string {
	fields := strings.Fields(model)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Path returns the device path the snapshot was taken from.
func (d *Device) Path() string { return d.path }

// Health returns the remaining usable life of the device in percent.
func (d *Device) Health() (float64, error) { return d.health.get() }

// Temperature returns the device temperature in Celsius.
func (d *Device) Temperature() (float64, error) { return d.temperature.get() }

// Model returns the disk model, or ModelUnknown when undetectable.
func (d *Device) Model() string { return d.model }

// Serial returns the disk serial number.
func (d *Device) Serial() string { return d.serial }

// Firmware returns the disk firmware version.
func (d *Device) Firmware() string { return d.firmware }

// GenericOutput returns the raw text captured from the generic probe.
func (d *Device) GenericOutput() string { return d.genericOut }

// VendorOutput returns the raw text captured from the vendor probe.
func (d *Device) VendorOutput() string { return d.vendorOut }

// PowerOnHours returns the accumulated power-on hours.
func (d *Device) PowerOnHours() (int64, error) { return d.powerOnHours.get() }

// PowerCycleCount returns the number of power cycles.
func (d *Device) PowerCycleCount() (int64, error) { return d.powerCycleCount.get() }

// TotalBadBlockCount returns the total number of bad flash blocks.
func (d *Device) TotalBadBlockCount() (int64, error) { return d.totalBadBlockCount.get() }

// EraseCountMax returns the maximum erase count over all blocks.
func (d *Device) EraseCountMax() (int64, error) { return d.eraseCountMax.get() }

// EraseCountAvg returns the average erase count over all blocks.
func (d *Device) EraseCountAvg() (int64, error) { return d.eraseCountAvg.get() }
