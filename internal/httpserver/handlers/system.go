package handlers

import (
	"net/http"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/logger"
	"mediadash/internal/sysmetrics"
)

type systemResponse struct {
	Host    string                 `json:"host"`
	Memory  *sysmetrics.Memory     `json:"memory"`
	Network sysmetrics.Network     `json:"network"`
	DiskIO  sysmetrics.DiskIO      `json:"diskIo"`
	Disks   []sysmetrics.DiskUsage `json:"disks"`
}

// System reads the local host counters. Every block degrades on its own:
// a failed memory read nulls the memory card, it does not fail the poll.
func System(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := systemResponse{
			Host:    d.Metrics.Hostname(),
			Network: d.Metrics.Network(r.Context()),
			DiskIO:  d.Metrics.DiskIO(),
			Disks:   d.Metrics.Disks(d.Disks),
		}

		memory, err := d.Metrics.Memory()
		if err != nil {
			d.Logger.Warn("memory read failed", logger.Error(err))
		} else {
			resp.Memory = memory
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
