package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) Send(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("invalid command line %q", line)
	}
	timeout := timeoutFrom(ctx, 2*time.Second)
	port, ok := scan(ctx, timeout)
	if !ok {
		return ErrNoResident
	}
	return send(residentAddr(port), line, timeout)
}

// send delivers one CMD line and waits for the resident's verdict.
func send(addr, line string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	if _, err := io.WriteString(conn, commandPrefix+line+"\n"); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	switch status {
	case okResponse:
		return nil
	case errorResponse:
		msg, _ := io.ReadAll(br)
		return errors.New(strings.TrimSpace(string(msg)))
	default:
		return fmt.Errorf("unexpected response %q", status)
	}
}
