package driver

import (
	"time"

	"github.com/kelp-lang/kelp/source/vm"
)

// updateInterval, drawInterval, and updateBatch are the constants spec.md
// §5 names: a ~2ms update tick running up to ~160 instructions, and a
// ~60Hz draw tick.
const (
	updateInterval = 2 * time.Millisecond
	drawInterval   = time.Second / 60
	updateBatch    = 160
)

// Driver owns one VM and schedules its update/draw ticks. It adds no VM
// state of its own beyond the two ticker handles — Run/Pause/Stop
// delegate straight to the VM's own lifecycle methods, matching spec.md's
// framing of the driver as "only the contract the VM exposes."
type Driver struct {
	vm     *vm.VM
	ticker Ticker
	update Handle
	draw   Handle
}

// New returns a Driver for v, scheduling ticks through ticker.
func New(v *vm.VM, ticker Ticker) *Driver {
	return &Driver{vm: v, ticker: ticker}
}

// Run starts the VM and schedules both recurring ticks.
func (d *Driver) Run() {
	d.vm.Run()
	d.update = d.ticker.Schedule(updateInterval, func() {
		d.vm.SetNeedsUpdate()
		d.vm.MultiStep(updateBatch)
	})
	d.draw = d.ticker.Schedule(drawInterval, func() {
		d.vm.SetNeedsDraw()
	})
}

// Pause stops scheduling ticks without discarding VM state.
func (d *Driver) Pause() {
	d.vm.Pause()
	d.ticker.Cancel(d.update)
	d.ticker.Cancel(d.draw)
}

// Stop cancels both ticks and stops the VM for good; Load is required
// before the VM can Run again.
func (d *Driver) Stop() {
	d.vm.Stop()
	d.ticker.Cancel(d.update)
	d.ticker.Cancel(d.draw)
}

// VM returns the Driver's underlying VM, e.g. so a Hub can read its State
// or LastError.
func (d *Driver) VM() *vm.VM { return d.vm }
