// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package api exposes the cmdl source and kind over HTTP. Prompts cannot be
// answered interactively here, so a request carries its answers up front.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"cmdl/internal/config"
	"cmdl/internal/host"
	"cmdl/internal/logger"
	"cmdl/internal/source"

	"github.com/gorilla/mux"
)

// ExecutorFactory returns an executor for the named host ("" for the
// configured default) whose command output goes to output.
type ExecutorFactory func(hostName string, output io.Writer) (host.Executor, error)

// Server serves the API for one configuration.
type Server struct {
	resolver host.DirectoryResolver
	params   source.Params
	hosts    []config.SSHHost
	executor ExecutorFactory
}

// NewServer returns a Server that reads cfg and executes through executor.
func NewServer(cfg config.Config, executor ExecutorFactory) *Server {
	return &Server{
		resolver: cfg,
		params:   cfg.Params(),
		hosts:    cfg.Hosts,
		executor: executor,
	}
}

// RegisterRoutes adds the API routes to router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/items", s.listItemsHandler).Methods("GET")
	router.HandleFunc("/api/actions", s.listActionsHandler).Methods("GET")
	router.HandleFunc("/api/actions/{name}", s.runActionHandler).Methods("POST")
	router.HandleFunc("/api/hosts", s.listHostsHandler).Methods("GET")
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.RegisterRoutes(router)
	return router
}

// writeJSONResponse writes data as JSON with the given status.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSONResponse(w, status, errorResponse{Error: err.Error()})
}
