package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49650

	minPort = 1024
	maxPort = 65535
)

// getPortRange reads the inclusive range from SINGLEINSTANCE_PORT_START and
// SINGLEINSTANCE_PORT_END. Unset or non-numeric values keep the defaults; the result is
// clamped to [1024, 65535] and ordered.
func getPortRange() (int, int) {
	start := envPort("SINGLEINSTANCE_PORT_START", defaultPortStart)
	end := envPort("SINGLEINSTANCE_PORT_END", defaultPortEnd)
	start = max(start, minPort)
	end = min(end, maxPort)
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envPort(name string, def int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return def
	}
	return n
}

// GetPortRangeForDebug exposes the effective port range for logging and the pre-flight check.
func GetPortRangeForDebug() (int, int) { return getPortRange() }
