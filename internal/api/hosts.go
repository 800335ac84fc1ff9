// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import "net/http"

// HostInfo describes a configured remote host. Credentials are left out.
type HostInfo struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
	User     string `json:"user"`
	Port     int    `json:"port,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// listHostsHandler lists the hosts an action may be executed on.
func (s *Server) listHostsHandler(w http.ResponseWriter, r *http.Request) {
	hosts := make([]HostInfo, 0, len(s.hosts))
	for _, h := range s.hosts {
		hosts = append(hosts, HostInfo{
			Name:     h.Name,
			Hostname: h.Hostname,
			User:     h.User,
			Port:     h.Port,
			Disabled: h.Disabled,
		})
	}
	writeJSONResponse(w, http.StatusOK, hosts)
}
