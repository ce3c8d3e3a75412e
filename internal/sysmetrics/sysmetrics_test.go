package sysmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediadash/internal/config"
)

func testCollector(now *time.Time) *Collector {
	c := New(nil)
	c.now = func() time.Time { return *now }
	return c
}

func TestRatesFirstSampleHasNoBaseline(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := testCollector(&now)

	rx, tx := c.rates("net", counterPair{a: 1000, b: 500})
	if rx != nil || tx != nil {
		t.Errorf("first sample rates = %v, %v; want nil, nil", rx, tx)
	}
}

func TestRatesComputesDeltaOverElapsed(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := testCollector(&now)

	c.rates("net", counterPair{a: 1000, b: 500})
	now = now.Add(10 * time.Second)
	rx, tx := c.rates("net", counterPair{a: 6000, b: 2500})

	if rx == nil || *rx != 500 {
		t.Errorf("rx = %v, want 500 B/s (5000 bytes over 10s)", rx)
	}
	if tx == nil || *tx != 200 {
		t.Errorf("tx = %v, want 200 B/s", tx)
	}
}

func TestRatesCounterResetClampsToZero(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := testCollector(&now)

	c.rates("net", counterPair{a: 9000, b: 9000})
	now = now.Add(5 * time.Second)
	rx, tx := c.rates("net", counterPair{a: 100, b: 20000})

	if rx == nil || *rx != 0 {
		t.Errorf("rx = %v, want 0 after a counter reset", rx)
	}
	if tx == nil || *tx != 2200 {
		t.Errorf("tx = %v, want 2200 B/s (the other counter is unaffected)", tx)
	}
}

func TestRatesKeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := testCollector(&now)

	c.rates("net", counterPair{a: 100, b: 100})
	if rx, _ := c.rates("diskio", counterPair{a: 100, b: 100}); rx != nil {
		t.Error("diskio first sample produced a rate from the net baseline")
	}
}

func TestNetworkPrefersTorrentSpeeds(t *testing.T) {
	c := New(func(ctx context.Context) (float64, float64, error) {
		return 1234, 56, nil
	})
	c.netCounters = func() (counterPair, error) {
		t.Error("host counters read although the torrent source answered")
		return counterPair{}, nil
	}

	n := c.Network(context.Background())
	if n.Source != SourceTorrent {
		t.Errorf("Source = %q, want %q", n.Source, SourceTorrent)
	}
	if n.RxBps == nil || *n.RxBps != 1234 || n.TxBps == nil || *n.TxBps != 56 {
		t.Errorf("speeds = %v, %v; want the torrent client's numbers", n.RxBps, n.TxBps)
	}
}

func TestNetworkFallsBackToHostCounters(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := New(func(ctx context.Context) (float64, float64, error) {
		return 0, 0, errors.New("qbittorrent down")
	})
	c.now = func() time.Time { return now }
	counters := counterPair{a: 1000, b: 1000}
	c.netCounters = func() (counterPair, error) { return counters, nil }

	n := c.Network(context.Background())
	if n.Source != SourceHost {
		t.Errorf("Source = %q, want %q on torrent failure", n.Source, SourceHost)
	}
	if n.RxBps != nil {
		t.Error("first host sample produced a rate, want nil")
	}

	now = now.Add(2 * time.Second)
	counters = counterPair{a: 3000, b: 1000}
	n = c.Network(context.Background())
	if n.RxBps == nil || *n.RxBps != 1000 {
		t.Errorf("rx = %v, want 1000 B/s on the second host sample", n.RxBps)
	}
}

func TestDisksKeepsFailedMounts(t *testing.T) {
	c := New(nil)
	c.diskUsage = func(path string) (uint64, uint64, uint64, error) {
		if path == "/missing" {
			return 0, 0, 0, errors.New("no such mount")
		}
		return 100, 60, 40, nil
	}

	rows := c.Disks([]config.DiskMount{
		{Label: "data", Path: "/data"},
		{Label: "gone", Path: "/missing"},
	})

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (failed mount kept)", len(rows))
	}
	if rows[0].Used != 60 || rows[0].Error != "" {
		t.Errorf("data row = %+v, want usage without error", rows[0])
	}
	if rows[1].Error == "" || rows[1].Total != 0 {
		t.Errorf("gone row = %+v, want error with zero sizes", rows[1])
	}
}
