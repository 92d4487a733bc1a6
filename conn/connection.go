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

package conn

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/packetd/mongowire/internal/bufbytes"
	"github.com/packetd/mongowire/internal/rescue"
	"github.com/packetd/mongowire/internal/zerocopy"
	"github.com/packetd/mongowire/logger"
	"github.com/packetd/mongowire/wire"
)

// state mirrors the Connection state machine from spec.md §4.5:
// Initial → Connected (on HandleConnected) → Disconnected (on
// HandleClose). Only Connected → Disconnected is observable.
type state int

const (
	stateInitial state = iota
	stateConnected
	stateDisconnected
)

// pendingSlot is a one-shot completion handle: Created at Submit,
// Completed exactly once, by reply arrival, write failure, or
// teardown.
type pendingSlot struct {
	done  chan struct{}
	once  sync.Once
	reply *wire.FramedMessage
	err   error
}

func newPendingSlot() *pendingSlot {
	return &pendingSlot{done: make(chan struct{})}
}

func (s *pendingSlot) complete(reply *wire.FramedMessage, err error) {
	s.once.Do(func() {
		s.reply, s.err = reply, err
		close(s.done)
	})
}

// Connection is the client-side multiplexer: a single send loop drains
// an outbox of frames onto the transport, and a single receive path
// (driven by the transport's HandleData callback) reassembles and
// decodes frames and completes their matching pending slot.
type Connection struct {
	// id is a per-connection correlation id attached to every log line
	// and span this Connection produces, so several concurrent
	// Connections are distinguishable in logs/traces. It never touches
	// the wire.
	id        string
	transport Transport
	tracer    trace.Tracer

	mu       sync.Mutex
	st       state
	pending  map[int32]*pendingSlot
	outbox   []*wire.FramedMessage
	recvBuf  zerocopy.Buffer
	closeErr error

	onConnected    []func()
	onDisconnected []func(error)
	eofFired       bool
	onEOF          []func()

	wake   chan struct{} // signals the send loop there's outbox work
	drain  chan struct{} // closed once the send loop has exited
	closed chan struct{} // closed at teardown

	errCh chan error // surfaces a teardown error, if any, once
}

// New wraps transport in a multiplexer and starts its send loop. The
// caller must still tell the Connection when the transport is actually
// up (HandleConnected) and must forward HandleData/HandleClose from
// the transport's own read loop.
func New(transport Transport) *Connection {
	c := &Connection{
		id:        uuid.New().String(),
		transport: transport,
		tracer:    noop.NewTracerProvider().Tracer("conn"),
		pending:   make(map[int32]*pendingSlot),
		recvBuf:   zerocopy.NewBuffer(nil),
		wake:      make(chan struct{}, 1),
		drain:     make(chan struct{}),
		closed:    make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	go c.sendLoop()
	return c
}

// SetTracer overrides the no-op tracer installed by New.
func (c *Connection) SetTracer(t trace.Tracer) {
	c.tracer = t
}

// HandleConnected transitions Initial → Connected. Transport adapters
// call this once the underlying link is actually usable.
func (c *Connection) HandleConnected() {
	c.mu.Lock()
	if c.st != stateInitial {
		c.mu.Unlock()
		return
	}
	c.st = stateConnected
	callbacks := c.onConnected
	c.onConnected = nil
	c.mu.Unlock()
	for _, f := range callbacks {
		f()
	}
}

// OnConnected registers f to run once the connection transitions to
// Connected. A registration made after that has already happened runs
// immediately.
func (c *Connection) OnConnected(f func()) {
	c.mu.Lock()
	if c.st == stateInitial {
		c.onConnected = append(c.onConnected, f)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	f()
}

// OnEOF registers f to run once the transport driver observes a clean
// end-of-stream from the peer (HandleEOF). This is distinct from
// OnDisconnected: HandleEOF signals only that the peer stopped
// sending, not that the connection has finished tearing down. A
// registration made after HandleEOF has already run invokes f
// immediately.
func (c *Connection) OnEOF(f func()) {
	c.mu.Lock()
	if !c.eofFired {
		c.onEOF = append(c.onEOF, f)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	f()
}

// HandleEOF signals that the transport observed a clean end-of-stream
// from the peer. Transport adapters call this at most once, typically
// immediately before the HandleClose that actually tears the
// connection down, so a caller can react to "the peer stopped
// sending" as its own event rather than only learning about it folded
// into teardown.
func (c *Connection) HandleEOF() {
	c.mu.Lock()
	if c.eofFired {
		c.mu.Unlock()
		return
	}
	c.eofFired = true
	callbacks := c.onEOF
	c.onEOF = nil
	c.mu.Unlock()
	for _, f := range callbacks {
		f()
	}
}

// Connected reports whether the connection is currently usable, i.e.
// past HandleConnected and not yet torn down by HandleClose.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st == stateConnected
}

// OnDisconnected registers f to run once, with the teardown cause (nil
// for a clean close), when the connection transitions to Disconnected.
// Registrations made after teardown has already happened run
// immediately with the recorded cause.
func (c *Connection) OnDisconnected(f func(error)) {
	c.mu.Lock()
	if c.st != stateDisconnected {
		c.onDisconnected = append(c.onDisconnected, f)
		c.mu.Unlock()
		return
	}
	cause := c.closeErr
	c.mu.Unlock()
	f(cause)
}

// Submit enqueues frame for sending and returns its reply once one
// arrives (or immediately, for fire-and-forget payloads). It is safe
// to call from multiple goroutines.
func (c *Connection) Submit(ctx context.Context, frame *wire.FramedMessage) (*wire.FramedMessage, error) {
	ctx, span := c.tracer.Start(ctx, "conn.Submit")
	span.SetAttributes(
		attribute.Int64("mongowire.request_id", int64(frame.Header.RequestID)),
		attribute.String("mongowire.opcode", frame.Payload.OpCode().String()),
		attribute.String("mongowire.connection_id", c.id),
	)
	defer span.End()

	slot := newPendingSlot()

	c.mu.Lock()
	if c.st != stateConnected {
		c.mu.Unlock()
		return nil, &NotConnectedError{}
	}
	if frame.HasReply() {
		if _, exists := c.pending[frame.Header.RequestID]; exists {
			c.mu.Unlock()
			duplicateRequestIDTotal.Inc()
			return nil, &DuplicateRequestIDError{RequestID: frame.Header.RequestID}
		}
		c.pending[frame.Header.RequestID] = slot
		pendingGauge.Set(float64(len(c.pending)))
	} else {
		slot.complete(nil, nil)
	}
	c.outbox = append(c.outbox, frame)
	outboxGauge.Set(float64(len(c.outbox)))
	c.mu.Unlock()

	logger.Debugf("conn[%s]: submit request_id=%d opcode=%s", c.id, frame.Header.RequestID, frame.Payload.OpCode())
	c.signalSendLoop()

	select {
	case <-slot.done:
		return slot.reply, slot.err
	case <-ctx.Done():
		c.cancelPending(frame.Header.RequestID)
		return nil, ctx.Err()
	case <-c.closed:
		// A teardown racing this select still completes slot.done
		// itself; prefer that result if both are ready.
		select {
		case <-slot.done:
			return slot.reply, slot.err
		default:
			return nil, &DisconnectedError{Err: c.closeErrSnapshot()}
		}
	}
}

// cancelPending removes requestID's slot, if still present, so a
// later-arriving reply for it is logged and discarded per spec.md §5's
// cancellation rule.
func (c *Connection) cancelPending(requestID int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[requestID]; ok {
		delete(c.pending, requestID)
		pendingGauge.Set(float64(len(c.pending)))
	}
}

func (c *Connection) closeErrSnapshot() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

func (c *Connection) signalSendLoop() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

var bufferPool bytebufferpool.Pool

// sendLoop dequeues frames and writes them to the transport, one at a
// time, until teardown. Panics in Encode (a programmer error in a
// caller-supplied Payload) are contained so one bad frame can't kill
// the connection's only writer.
func (c *Connection) sendLoop() {
	defer close(c.drain)
	for {
		frame, ok := c.dequeue()
		if !ok {
			select {
			case <-c.wake:
				continue
			case <-c.closed:
				return
			}
		}
		c.writeFrame(frame)
	}
}

func (c *Connection) dequeue() (*wire.FramedMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.outbox) == 0 {
		return nil, false
	}
	frame := c.outbox[0]
	c.outbox = c.outbox[1:]
	outboxGauge.Set(float64(len(c.outbox)))
	return frame, true
}

func (c *Connection) writeFrame(frame *wire.FramedMessage) {
	defer rescue.HandleCrash()

	encoded, err := frame.Encode()
	if err != nil {
		writeErrorsTotal.Inc()
		c.failPending(frame.Header.RequestID, errors.Wrap(err, "conn: encode frame"))
		return
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)
	_, _ = buf.Write(encoded)

	if err := c.transport.Write(buf.Bytes()); err != nil {
		writeErrorsTotal.Inc()
		logger.Errorf("conn[%s]: write request_id=%d: %v", c.id, frame.Header.RequestID, err)
		c.failPending(frame.Header.RequestID, &WriteError{Err: err})
		return
	}
	framesSentTotal.Inc()
}

func (c *Connection) failPending(requestID int32, err error) {
	c.mu.Lock()
	slot, ok := c.pending[requestID]
	if ok {
		delete(c.pending, requestID)
		pendingGauge.Set(float64(len(c.pending)))
	}
	c.mu.Unlock()
	if ok {
		slot.complete(nil, err)
	}
}

// HandleData feeds a chunk of transport bytes into the receive
// pipeline: it reassembles whole frames out of however the bytes are
// chunked, decodes each one, and completes its pending slot. chunk is
// copied, so the caller may reuse its buffer once HandleData returns.
func (c *Connection) HandleData(chunk []byte) {
	defer rescue.HandleCrash()

	c.mu.Lock()
	c.recvBuf.Write(append([]byte(nil), chunk...))
	for {
		lengthBytes, ok := c.recvBuf.Peek(4)
		if !ok {
			break
		}
		total, ok := wire.PeekFrameLength(lengthBytes)
		if !ok || total < 4 {
			break
		}
		frameBytes, ok := c.recvBuf.Peek(total)
		if !ok {
			break
		}
		owned := append([]byte(nil), frameBytes...)
		if _, err := c.recvBuf.Read(total); err != nil {
			break
		}
		c.mu.Unlock()
		c.handleFrame(owned)
		c.mu.Lock()
	}
	c.mu.Unlock()
}

// maxFramePreviewBytes bounds how much of a malformed frame gets
// logged: enough to diagnose a bad header or opcode, never the whole
// payload.
const maxFramePreviewBytes = 64

// framePreview renders a bounded hex preview of a frame for log lines,
// the same capped-accumulation shape bufbytes.Bytes gives the
// decoders' statement previews, just hex instead of C-string text.
func framePreview(b []byte) string {
	preview := bufbytes.New(maxFramePreviewBytes)
	preview.Write(b)
	suffix := ""
	if len(b) > maxFramePreviewBytes {
		suffix = "..."
	}
	return hex.EncodeToString(preview.Clone()) + suffix
}

func (c *Connection) handleFrame(b []byte) {
	frame, err := wire.DecodeFrame(b)
	if err != nil {
		decodeErrorsTotal.Inc()
		logger.Errorf("conn[%s]: decode frame (%d bytes, preview %s): %v", c.id, len(b), framePreview(b), err)
		return
	}
	framesReceivedTotal.Inc()

	c.mu.Lock()
	slot, ok := c.pending[frame.Header.ResponseTo]
	if ok {
		delete(c.pending, frame.Header.ResponseTo)
		pendingGauge.Set(float64(len(c.pending)))
	}
	c.mu.Unlock()

	if !ok {
		unexpectedResponseTotal.Inc()
		logger.Errorf("conn[%s]: %v", c.id, &UnexpectedResponseError{ResponseTo: frame.Header.ResponseTo})
		return
	}
	slot.complete(frame, nil)
}

// HandleClose tears the connection down: every pending slot completes
// with a disconnected error, the outbox is dropped, and state moves to
// Disconnected. cause may be nil for a clean close.
func (c *Connection) HandleClose(cause error) {
	c.mu.Lock()
	if c.st == stateDisconnected {
		c.mu.Unlock()
		return
	}
	c.st = stateDisconnected
	c.closeErr = cause

	var result *multierror.Error
	if cause != nil {
		result = multierror.Append(result, cause)
	}
	if n := len(c.outbox); n > 0 {
		result = multierror.Append(result, errors.Errorf("dropped %d unsent frame(s) at teardown", n))
		for _, frame := range c.outbox {
			if slot, ok := c.pending[frame.Header.RequestID]; ok {
				slot.complete(nil, &DisconnectedError{Err: cause})
			}
		}
		c.outbox = nil
	}

	pending := c.pending
	c.pending = make(map[int32]*pendingSlot)
	pendingGauge.Set(0)
	outboxGauge.Set(0)
	c.mu.Unlock()

	for _, slot := range pending {
		slot.complete(nil, &DisconnectedError{Err: cause})
	}

	close(c.closed)
	<-c.drain

	if result != nil && result.Len() > 0 {
		select {
		case c.errCh <- result.ErrorOrNil():
		default:
		}
	}
	logger.Infof("conn[%s]: closed, cause=%v", c.id, cause)

	c.mu.Lock()
	callbacks := c.onDisconnected
	c.onDisconnected = nil
	c.mu.Unlock()
	for _, f := range callbacks {
		f(cause)
	}
}

// Err returns a channel that receives at most one aggregated teardown
// error; nothing is sent if the close had no cause and dropped no
// unsent frames.
func (c *Connection) Err() <-chan error {
	return c.errCh
}
