/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package resolver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nabbar/printcore/config"
	"github.com/nabbar/printcore/errors"
	"github.com/nabbar/printcore/ipp"
	loglib "github.com/nabbar/printcore/logger"
	"github.com/nabbar/printcore/resolver/dnssd"
)

// Flags qualifies a callback delivery: whether the delivered Destination is
// the recorded default and/or came from DNS-SD discovery rather than the
// scheduler.
type Flags uint8

const (
	FlagNone       Flags = 0
	FlagDefault    Flags = 1 << 0
	FlagDiscovered Flags = 1 << 1
)

// ResultFunc is invoked once per merged Destination; returning false ends
// enumeration early.
type ResultFunc func(flags Flags, dest Destination) bool

// EnumerateOptions configures one enumeration pass.
type EnumerateOptions struct {
	// FilterType/FilterMask restrict results to destinations where
	// (printer-type & FilterMask) == FilterType. A zero mask matches any
	// destination.
	FilterType Type
	FilterMask Type

	// DiscoveredOnly skips the scheduler Get-Printers exchange (step 2)
	// entirely and only reports DNS-SD-discovered destinations.
	DiscoveredOnly bool

	// BudgetMillis bounds how long the DNS-SD polling loop (step 5) runs:
	// 0 returns the local/scheduler snapshot only, a negative value polls
	// until Cancel fires, ctx is done, or Result returns false.
	BudgetMillis int

	// Cancel, when non-nil, ends enumeration at the next poll boundary
	// once set to a non-zero value (polled cooperatively, matching the
	// transport/HTTP-engine cancellation convention).
	Cancel *int32

	// Backend drives DNS-SD browse/resolve. A nil Backend disables steps
	// 3-5 entirely (scheduler-only enumeration).
	Backend dnssd.Backend

	Result ResultFunc
}

// Enumerate runs the full pipeline described in §4.4: overlay load,
// scheduler Get-Printers, overlay merge, dnssd: pre-seeding, and (when a
// Backend and nonzero budget are supplied) the DNS-SD browse/resolve
// polling loop, streaming every merged Destination through opts.Result.
func Enumerate(ctx context.Context, cfg config.Config, log loglib.Logger, opts EnumerateOptions) errors.Error {
	if opts.Result == nil {
		return ErrorParamsEmpty.Error()
	}

	defName, defInstance, _ := cfg.DefaultDestination()
	overlay := cfg.Overlay()

	table := newServiceTable()

	if !opts.DiscoveredOnly {
		dests, err := schedulerDestinations(ctx, cfg, log, ipp.OpCUPSGetPrinters, nil)
		if err != nil {
			return err
		}

		for _, d := range dests {
			table.preseedActive(d)

			t := printerTypeOf(d)
			if !t.Matches(opts.FilterType, opts.FilterMask) {
				continue
			}

			cont := mergeOverlay(overlay, defName, defInstance, d, func(out Destination) bool {
				return opts.Result(flagsFor(out, false), out)
			})
			if !cont {
				return nil
			}
		}
	}

	if opts.Backend == nil || opts.BudgetMillis == 0 {
		return nil
	}

	return runDiscovery(ctx, overlay, defName, defInstance, table, opts)
}

func flagsFor(d Destination, discovered bool) Flags {
	var f Flags
	if d.IsDefault {
		f |= FlagDefault
	}
	if discovered {
		f |= FlagDiscovered
	}
	return f
}

// runDiscovery drives §4.4 steps 4-5: browse _ipp._tcp/_ipps._tcp, resolve
// each new instance's TXT record, merge and deliver, until the budget
// elapses or Cancel fires.
func runDiscovery(ctx context.Context, overlay *config.Overlay, defName, defInstance string, table *serviceTable, opts EnumerateOptions) errors.Error {
	dctx := ctx
	var cancelFn context.CancelFunc
	if opts.BudgetMillis > 0 {
		dctx, cancelFn = context.WithTimeout(ctx, time.Duration(opts.BudgetMillis)*time.Millisecond)
		defer cancelFn()
	}

	events := make(chan dnssd.ServiceEvent, 32)
	if err := opts.Backend.Browse(dctx, []string{"_ipp._tcp", "_ipps._tcp"}, events); err != nil {
		return ErrorDiscoveryBrowse.Error(err)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if opts.Cancel != nil && atomic.LoadInt32(opts.Cancel) != 0 {
			return nil
		}

		select {
		case <-dctx.Done():
			return nil
		case ev := <-events:
			handleServiceEvent(table, ev)
		case <-ticker.C:
			if !pollPending(dctx, overlay, defName, defInstance, table, opts) {
				return nil
			}
		}
	}
}

func handleServiceEvent(table *serviceTable, ev dnssd.ServiceEvent) {
	if ev.Kind == dnssd.EventRemoved {
		table.remove(ev)
		return
	}
	table.upsertNew(ev)
}

// pollPending advances every ServiceNew record through querying/pending to
// active, delivering it to opts.Result when it matches the filter. It
// returns false when the caller asked to stop.
func pollPending(ctx context.Context, overlay *config.Overlay, defName, defInstance string, table *serviceTable, opts EnumerateOptions) bool {
	for _, rec := range table.pendingNew() {
		table.setState(rec, ServiceQuerying)

		res, err := opts.Backend.Resolve(ctx, rec.name, rec.regType, rec.domain)
		if err != nil {
			table.setState(rec, ServiceError)
			continue
		}

		if !applyTXT(rec, res, rec.regType == "_ipps._tcp") {
			table.setState(rec, ServiceIncompatible)
			continue
		}

		table.setState(rec, ServicePending)

		t := printerTypeOf(rec.dest)
		if !t.Matches(opts.FilterType, opts.FilterMask) {
			table.setState(rec, ServiceActive)
			continue
		}

		cont := mergeOverlay(overlay, defName, defInstance, rec.dest, func(out Destination) bool {
			return opts.Result(flagsFor(out, true), out)
		})

		table.setState(rec, ServiceActive)

		if !cont {
			return false
		}
	}

	return true
}
