package singleinstance

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"time"
)

// DetectResidentPort returns the first port in the range whose listener answers PING.
func DetectResidentPort(ctx context.Context) (int, bool) {
	return scan(ctx, timeoutFrom(ctx, 300*time.Millisecond))
}

func scan(ctx context.Context, timeout time.Duration) (int, bool) {
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return 0, false
		}
		if ping(residentAddr(port), timeout) {
			return port, true
		}
	}
	return 0, false
}

func residentAddr(port int) string {
	return net.JoinHostPort(residentHost, strconv.Itoa(port))
}

// timeoutFrom uses what is left of ctx's deadline, or def without one.
func timeoutFrom(ctx context.Context, def time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return def
}

// ping performs the PING/PONG handshake; a listener that is not a resident fails it.
func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := io.WriteString(conn, pingRequest); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}
