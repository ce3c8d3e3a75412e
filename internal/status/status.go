// Package status fans out lightweight health probes to every integration
// and folds them into one composite signal for the dashboard header.
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mediadash/internal/upstream"
)

// NotConfiguredDetail is the sentinel excluded from the composite ok: an
// integration the operator never set up must not paint the header red.
const NotConfiguredDetail = "not configured"

const probeTimeout = 5 * time.Second

// Probe is one service's health check. Check returns a human detail string
// (typically the upstream version) or an error.
type Probe struct {
	Name  string
	Check func(ctx context.Context) (string, error)
}

// ServiceStatus is one row of the health panel.
type ServiceStatus struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report is the composite health object.
type Report struct {
	OK    bool            `json:"ok"`
	Items []ServiceStatus `json:"items"`
}

type Aggregator struct {
	probes []Probe
}

func New(probes ...Probe) *Aggregator {
	return &Aggregator{probes: probes}
}

// Check runs every probe concurrently, each fault-isolated under its own
// timeout, and joins all of them. Total latency is bounded by the slowest
// probe, not the sum.
func (a *Aggregator) Check(ctx context.Context) Report {
	items := make([]ServiceStatus, len(a.probes))

	var wg sync.WaitGroup
	for i, p := range a.probes {
		wg.Add(1)
		go func(i int, p Probe) {
			defer wg.Done()
			items[i] = runProbe(ctx, p)
		}(i, p)
	}
	wg.Wait()

	ok := true
	for _, item := range items {
		if item.Detail == NotConfiguredDetail {
			continue
		}
		ok = ok && item.OK
	}
	return Report{OK: ok, Items: items}
}

func runProbe(ctx context.Context, p Probe) ServiceStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	detail, err := p.Check(ctx)
	if err != nil {
		return ServiceStatus{Name: p.Name, OK: false, Detail: failureDetail(err)}
	}
	if detail == "" {
		detail = "ok"
	}
	return ServiceStatus{Name: p.Name, OK: true, Detail: detail}
}

func failureDetail(err error) string {
	ue, ok := upstream.AsError(err)
	if !ok {
		return err.Error()
	}
	switch ue.Kind {
	case upstream.KindNotConfigured:
		return NotConfiguredDetail
	case upstream.KindRejected:
		return fmt.Sprintf("http %d", ue.Status)
	default:
		if upstream.IsTimeout(err) {
			return "timeout"
		}
		return "unreachable"
	}
}
