// Package sysmetrics reads local OS counters for the system card. Memory
// and disk usage are direct reads; network and disk-I/O throughput are
// derived from cumulative counters sampled across polls, so the collector
// carries the only process-lifetime state in this service.
package sysmetrics

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"

	"mediadash/internal/config"
)

// Throughput sources reported on the system card.
const (
	SourceTorrent = "qbittorrent"
	SourceHost    = "host"
)

// TorrentSpeedFunc reports the torrent client's global transfer speeds in
// bytes/sec. It is the preferred network source because it matches the
// dashboard's "active downloads" framing.
type TorrentSpeedFunc func(ctx context.Context) (rxBps, txBps float64, err error)

type counterPair struct {
	a, b uint64
}

// CounterFunc reads a pair of cumulative byte counters (rx/tx or
// read/write). Injectable so tests can feed synthetic deltas.
type CounterFunc func() (counterPair, error)

type sample struct {
	counters counterPair
	at       time.Time
}

type Collector struct {
	mu      sync.Mutex
	samples map[string]sample

	now          func() time.Time
	netCounters  CounterFunc
	diskCounters CounterFunc
	torrentSpeed TorrentSpeedFunc
	diskUsage    func(path string) (total, used, free uint64, err error)
}

// New builds a collector reading real OS counters. torrentSpeed may be nil
// when the torrent integration is absent.
func New(torrentSpeed TorrentSpeedFunc) *Collector {
	return &Collector{
		samples:      make(map[string]sample),
		now:          time.Now,
		netCounters:  readNetCounters,
		diskCounters: readDiskCounters,
		torrentSpeed: torrentSpeed,
		diskUsage:    readDiskUsage,
	}
}

func readNetCounters() (counterPair, error) {
	stats, err := gopsnet.IOCounters(false)
	if err != nil || len(stats) == 0 {
		return counterPair{}, err
	}
	return counterPair{a: stats[0].BytesRecv, b: stats[0].BytesSent}, nil
}

func readDiskCounters() (counterPair, error) {
	stats, err := disk.IOCounters()
	if err != nil {
		return counterPair{}, err
	}
	var p counterPair
	for _, s := range stats {
		p.a += s.ReadBytes
		p.b += s.WriteBytes
	}
	return p, nil
}

func readDiskUsage(path string) (total, used, free uint64, err error) {
	u, err := disk.Usage(path)
	if err != nil {
		return 0, 0, 0, err
	}
	return u.Total, u.Used, u.Free, nil
}

// Memory is the total/used/available snapshot in bytes.
type Memory struct {
	TotalBytes uint64 `json:"totalBytes"`
	UsedBytes  uint64 `json:"usedBytes"`
	AvailBytes uint64 `json:"availBytes"`
}

func (c *Collector) Memory() (*Memory, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	return &Memory{TotalBytes: vm.Total, UsedBytes: vm.Used, AvailBytes: vm.Available}, nil
}

// DiskUsage is one configured mount. A failed read keeps the label and
// carries the error so the card can show a degraded row instead of nothing.
type DiskUsage struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Total uint64 `json:"total,omitempty"`
	Used  uint64 `json:"used,omitempty"`
	Free  uint64 `json:"free,omitempty"`
	Error string `json:"error,omitempty"`
}

func (c *Collector) Disks(mounts []config.DiskMount) []DiskUsage {
	out := make([]DiskUsage, 0, len(mounts))
	for _, m := range mounts {
		d := DiskUsage{Label: m.Label, Path: m.Path}
		total, used, free, err := c.diskUsage(m.Path)
		if err != nil {
			d.Error = err.Error()
		} else {
			d.Total, d.Used, d.Free = total, used, free
		}
		out = append(out, d)
	}
	return out
}

// rates computes bytes/sec for a counter pair against the previous sample
// under the same key. The first observation after process start has no
// baseline and yields nil rates; a counter running backwards (reset) clamps
// to zero.
func (c *Collector) rates(key string, current counterPair) (*float64, *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	prev, ok := c.samples[key]
	c.samples[key] = sample{counters: current, at: now}
	if !ok {
		return nil, nil
	}

	seconds := now.Sub(prev.at).Seconds()
	if seconds <= 0 {
		return nil, nil
	}

	a := counterRate(prev.counters.a, current.a, seconds)
	b := counterRate(prev.counters.b, current.b, seconds)
	return &a, &b
}

func counterRate(prev, cur uint64, seconds float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / seconds
}

// Network is the throughput block. Source records where the numbers came
// from so the selection itself is observable.
type Network struct {
	RxBps  *float64 `json:"rxBps"`
	TxBps  *float64 `json:"txBps"`
	Source string   `json:"source,omitempty"`
}

// Network prefers the torrent client's self-reported speeds and falls back
// to local interface counter deltas when that integration is unavailable.
func (c *Collector) Network(ctx context.Context) Network {
	if c.torrentSpeed != nil {
		if rx, tx, err := c.torrentSpeed(ctx); err == nil {
			return Network{RxBps: &rx, TxBps: &tx, Source: SourceTorrent}
		}
	}

	counters, err := c.netCounters()
	if err != nil {
		return Network{}
	}
	rx, tx := c.rates("net", counters)
	return Network{RxBps: rx, TxBps: tx, Source: SourceHost}
}

// DiskIO is the read/write throughput block.
type DiskIO struct {
	ReadBps  *float64 `json:"readBps"`
	WriteBps *float64 `json:"writeBps"`
	Source   string   `json:"source,omitempty"`
}

func (c *Collector) DiskIO() DiskIO {
	counters, err := c.diskCounters()
	if err != nil {
		return DiskIO{}
	}
	read, write := c.rates("diskio", counters)
	return DiskIO{ReadBps: read, WriteBps: write, Source: SourceHost}
}

// Hostname is best-effort; the card shows an empty host over an error.
func (c *Collector) Hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}
