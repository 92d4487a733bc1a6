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

// Package server hosts the demo CLI's HTTP side: Prometheus metrics
// and a liveness probe, nothing to do with the wire protocol itself.
package server

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/packetd/mongowire/logger"
)

// Config controls the HTTP server's address and optional extras.
type Config struct {
	Address string        `config:"address"`
	Pprof   bool          `config:"pprof"`
	Timeout time.Duration `config:"timeout"`
}

// Server is a small gorilla/mux-routed HTTP server exposing /metrics
// and /healthz; RegisterGetRoute lets callers add more.
type Server struct {
	config      Config
	router      *mux.Router
	server      *http.Server
	healthCheck func() bool
}

// New builds a Server with /metrics and /healthz already registered.
func New(config Config) *Server {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	router := mux.NewRouter()
	s := &Server{
		config: config,
		router: router,
		server: &http.Server{
			Handler:      router,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
		},
	}
	s.RegisterGetRoute("/metrics", promhttp.Handler().ServeHTTP)
	s.RegisterGetRoute("/healthz", s.handleHealthz)
	if config.Pprof {
		s.registerPprofRoutes()
	}
	return s
}

// ListenAndServe blocks serving HTTP on config.Address.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	logger.Infof("server: listening on %s", s.config.Address)
	return s.server.Serve(l)
}

// RegisterGetRoute adds a GET handler at path.
func (s *Server) RegisterGetRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodGet).Path(path).HandlerFunc(f)
}

// SetHealthCheck installs the predicate /healthz reports. A typical
// caller wires this to something like "at least one conn.Connection is
// still Connected()". With no predicate installed, /healthz always
// reports healthy.
func (s *Server) SetHealthCheck(f func() bool) {
	s.healthCheck = f
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if s.healthCheck != nil && !s.healthCheck() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unhealthy"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) registerPprofRoutes() {
	s.RegisterGetRoute("/debug/pprof/cmdline", pprof.Cmdline)
	s.RegisterGetRoute("/debug/pprof/profile", pprof.Profile)
	s.RegisterGetRoute("/debug/pprof/symbol", pprof.Symbol)
	s.RegisterGetRoute("/debug/pprof/trace", pprof.Trace)
	s.RegisterGetRoute("/debug/pprof/{other}", pprof.Index)
}
