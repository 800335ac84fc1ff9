// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import (
	"net/http"

	"cmdl/internal/logger"
	"cmdl/internal/source"
)

// listItemsHandler returns the rendered items, the placeholder included.
func (s *Server) listItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := source.New(s.resolver, s.params).Gather(r.Context())
	if err != nil {
		logger.Error("failed to gather items", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, items)
}
