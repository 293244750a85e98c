package ssd

import (
	"regexp"
	"strconv"
	"strings"
)

var _ Reporter = (*Device)(nil)

// Dispatch keys are the first whitespace-delimited token of the detected
// model string, matched exactly and case-sensitively.
const (
	vendorGeneric  = "Generic"
	vendorInnoDisk = "InnoDisk"
	vendorM2       = "M.2"
	vendorStorFly  = "StorFly"
	vendorVirtium  = "Virtium"
)

// utility pairs a vendor diagnostic command template with the parser for
// its output. Multiple dispatch keys may share the same utility (aliases).
type utility struct {
	cmdline func(dev string) []string
	parse   func(d *Device, out string)
}

func smartctlCmd(dev string) []string { return []string{"smartctl", dev, "-a"} }
func innodiskCmd(dev string) []string { return []string{"iSmart", "-d", dev} }
func virtiumCmd(dev string) []string  { return []string{"SmartCmd", "-m", dev} }

// vendorUtilities is the vendor dispatch table. It is never mutated after
// package initialization.
var vendorUtilities = map[string]utility{
	vendorGeneric:  {smartctlCmd, (*Device).parseGenericVendor},
	vendorInnoDisk: {innodiskCmd, (*Device).parseInnodisk},
	vendorM2:       {innodiskCmd, (*Device).parseInnodisk},
	vendorStorFly:  {virtiumCmd, (*Device).parseVirtium},
	vendorVirtium:  {virtiumCmd, (*Device).parseVirtium},
}

// Label patterns. Each has exactly one capture group; a malformed pattern
// is a programmer error and fails at init.
var (
	reDeviceModel     = regexp.MustCompile(`Device Model:\s*(.+?)\n`)
	reSerialNumber    = regexp.MustCompile(`Serial Number:\s*(.+?)\n`)
	reFirmwareVersion = regexp.MustCompile(`Firmware Version:\s*(.+?)\n`)

	reHealthPercent     = regexp.MustCompile(`Health:\s*(.+?)%`)
	reTemperatureBrkt   = regexp.MustCompile(`Temperature\s*\[\s*(.+?)\]`)
	rePowerOnHours      = regexp.MustCompile(`Power On Hours\s*\[\s*(.+?)\]`)
	rePowerCycleCount   = regexp.MustCompile(`Power Cycle Count\s*\[\s*(.+?)\]`)
	reTotalBadBlocks    = regexp.MustCompile(`Total Bad Block Count\s*\[\s*(.+?)\]`)
	reEraseCountMax     = regexp.MustCompile(`Erase Count Max\.\s*\[\s*(.+?)\]`)
	reEraseCountAvg     = regexp.MustCompile(`Erase Count Avg\.\s*\[\s*(.+?)\]`)

	reTemperatureCelsius = regexp.MustCompile(`Temperature_Celsius\s*\d*\s*(\d+?)\s+`)
	reNandEndurance      = regexp.MustCompile(`NAND_Endurance\s*\d*\s*(\d+?)\s+`)
	reAverageEraseCount  = regexp.MustCompile(`Average_Erase_Count\s*\d*\s*(\d+?)\s+`)
)

// matchFirst returns the first capture group of the first match of re in
// buf, or ok=false when re does not match. It never fails on input text.
func matchFirst(re *regexp.Regexp, buf string) (string, bool) {
	m := re.FindStringSubmatch(buf)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func matchFloat(re *regexp.Regexp, buf string) optional[float64] {
	s, ok := matchFirst(re, buf)
	if !ok {
		return optional[float64]{}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return optional[float64]{}
	}
	return present(v)
}

func matchInt(re *regexp.Regexp, buf string) optional[int64] {
	s, ok := matchFirst(re, buf)
	if !ok {
		return optional[int64]{}
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return optional[int64]{}
	}
	return present(v)
}

// parseGenericVendor handles the dispatch hit on a literal "Generic" model.
// Model, serial and firmware were already extracted from the generic probe
// output; smartctl reports no vendor specific fields beyond those.
func (d *Device) parseGenericVendor(string) {}

// parseInnodisk extracts iSmart bracket-labeled fields, e.g.
//
//	Health:              96%
//	Temperature          [ 40 ]
//	Power On Hours       [ 1210 ]
func (d *Device) parseInnodisk(out string) {
	d.health = matchFloat(reHealthPercent, out)
	d.temperature = matchFloat(reTemperatureBrkt, out)
	d.powerOnHours = matchInt(rePowerOnHours, out)
	d.powerCycleCount = matchInt(rePowerCycleCount, out)
	d.totalBadBlockCount = matchInt(reTotalBadBlocks, out)
	d.eraseCountMax = matchInt(reEraseCountMax, out)
	d.eraseCountAvg = matchInt(reEraseCountAvg, out)
}

// parseVirtium extracts SmartCmd attribute-table fields. Health is not
// reported directly; it is derived from the wear ratio of the average
// erase count against the rated NAND endurance.
func (d *Device) parseVirtium(out string) {
	d.temperature = matchFloat(reTemperatureCelsius, out)

	endurance := matchFloat(reNandEndurance, out)
	avgErase := matchFloat(reAverageEraseCount, out)
	if !endurance.ok || !avgErase.ok || endurance.value == 0 {
		// Either intermediate missing, or a zero endurance rating that
		// would divide by zero: health stays not-available.
		return
	}
	d.health = present(100 - avgErase.value*100/endurance.value)
}
