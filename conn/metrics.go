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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/mongowire/common"
)

var (
	framesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "frames_sent_total",
		Help:      "frames successfully written to the transport",
	})

	framesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "frames_received_total",
		Help:      "frames successfully decoded from the transport",
	})

	writeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "write_errors_total",
		Help:      "transport.Write failures observed by the send loop",
	})

	decodeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "decode_errors_total",
		Help:      "frames dropped for failing to decode",
	})

	duplicateRequestIDTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "duplicate_request_id_total",
		Help:      "Submit calls rejected for reusing a live request id",
	})

	unexpectedResponseTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "unexpected_response_total",
		Help:      "decoded replies whose response_to matched no pending request",
	})

	pendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "pending_requests",
		Help:      "requests awaiting a reply right now",
	})

	outboxGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Subsystem: "conn",
		Name:      "outbox_depth",
		Help:      "frames queued for the send loop right now",
	})
)
