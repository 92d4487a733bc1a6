// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package nettransport adapts a net.Conn to conn.Transport, running
// the read loop that feeds bytes into a conn.Connection.
package nettransport

import (
	"errors"
	"io"
	"net"

	"github.com/packetd/mongowire/conn"
	"github.com/packetd/mongowire/internal/rescue"
	"github.com/packetd/mongowire/logger"
)

const readBufferSize = 64 * 1024

// Transport adapts a net.Conn. New wires it to a fresh conn.Connection
// and starts reading immediately; the Connection is usable the moment
// New returns.
type Transport struct {
	nc net.Conn
}

// Dial opens a TCP connection to addr and returns a live
// conn.Connection backed by it.
func Dial(network, addr string) (*conn.Connection, error) {
	nc, err := net.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	return New(nc), nil
}

// New adapts an already-established net.Conn.
func New(nc net.Conn) *conn.Connection {
	t := &Transport{nc: nc}
	c := conn.New(t)
	c.HandleConnected()
	go t.readLoop(c)
	return c
}

func (t *Transport) Write(b []byte) error {
	_, err := t.nc.Write(b)
	return err
}

func (t *Transport) readLoop(c *conn.Connection) {
	defer rescue.HandleCrash()
	buf := make([]byte, readBufferSize)
	for {
		n, err := t.nc.Read(buf)
		if n > 0 {
			c.HandleData(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.HandleEOF()
				c.HandleClose(nil)
			} else {
				logger.Errorf("nettransport: read: %v", err)
				c.HandleClose(err)
			}
			return
		}
	}
}

// Close closes the underlying net.Conn; the read loop's resulting EOF
// (or error) drives the Connection's own teardown.
func (t *Transport) Close() error {
	return t.nc.Close()
}
