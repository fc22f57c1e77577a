package singleinstance

// This file defines the API for single-instance ownership and command delivery.

import (
	"context"
	"errors"
)

// ErrNoResident is returned by Client.Send when no resident answered in the port range.
var ErrNoResident = errors.New("no resident overlay found")

// Server owns the TCP endpoint and answers command requests.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	// Request returns the parsed client request.
	Request() Request
	// RespondOK reports that the command was applied.
	RespondOK() error
	// RespondError sends an error with human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Request is a single command line sent by a client, e.g. "set-tool arrow".
type Request struct {
	Line string
}

// Client delivers command lines to a resident server.
type Client interface {
	// Send scans the port range, performs the handshake and delivers line.
	// Returns ErrNoResident when nothing answered.
	Send(ctx context.Context, line string) error
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
