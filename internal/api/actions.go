// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"cmdl/internal/host"
	"cmdl/internal/kind"
	"cmdl/internal/logger"
	"cmdl/internal/source"
	"cmdl/internal/store"

	"github.com/gorilla/mux"
)

// ActionInfo names an action and says what it does.
type ActionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ActionRequest is the body of POST /api/actions/{name}. Items must come from
// GET /api/items. Inputs answer the action's text prompts in order and
// Confirm answers its confirmation; a missing answer reads as the user
// backing out.
type ActionRequest struct {
	Items   []source.ActionData `json:"items"`
	Inputs  []string            `json:"inputs,omitempty"`
	Confirm int                 `json:"confirm,omitempty"`
	Host    string              `json:"host,omitempty"`
}

// ActionResponse reports what the action did.
type ActionResponse struct {
	Flags    string   `json:"flags"`
	Executed []string `json:"executed"`
	Output   string   `json:"output,omitempty"`
}

func (s *Server) listActionsHandler(w http.ResponseWriter, r *http.Request) {
	k := kind.New(&host.Scripted{})
	actions := k.Actions()

	infos := make([]ActionInfo, 0, len(actions))
	for _, name := range k.ActionNames() {
		infos = append(infos, ActionInfo{Name: name, Description: actions[name].Description})
	}
	writeJSONResponse(w, http.StatusOK, infos)
}

// errUntrustedItem marks request items that do not belong to the served
// data file.
var errUntrustedItem = errors.New("item not registered")

// trustedItems turns request payloads into items bound to dataPath. Items may
// leave dataPath empty but must not name another file. For execute every item
// must also be an entry registered in dataPath, so only commands the user
// stored can be run.
func trustedItems(action string, payloads []source.ActionData, dataPath string) ([]source.Item, error) {
	var registered map[store.Entry]struct{}
	if action == "execute" {
		registered = make(map[store.Entry]struct{})
		for _, e := range store.Load(dataPath) {
			registered[e] = struct{}{}
		}
	}

	items := make([]source.Item, 0, len(payloads))
	for _, a := range payloads {
		if a.DataPath == "" {
			a.DataPath = dataPath
		}
		if a.DataPath != dataPath {
			return nil, fmt.Errorf("%w: data path %s is not served here", errUntrustedItem, a.DataPath)
		}

		word := a.Label
		if a.IsPlaceholder {
			word = source.PlaceholderText
		} else if registered != nil {
			if _, ok := registered[a.Entry]; !ok {
				return nil, fmt.Errorf("%w: no command labelled '%s' runs %q", errUntrustedItem, a.Label, a.Command)
			}
		}
		items = append(items, source.Item{Word: word, Action: a})
	}
	return items, nil
}

// requireJSON rejects bodies that are not declared as JSON. Browsers send
// text/plain cross-site without a preflight; application/json needs one.
func requireJSON(r *http.Request) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("unsupported content type %q, want application/json", r.Header.Get("Content-Type"))
	}
	return nil
}

func (s *Server) runActionHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := requireJSON(r); err != nil {
		writeError(w, http.StatusUnsupportedMediaType, err)
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	dir, err := s.resolver.DataDirectory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	dataPath := filepath.Join(dir, host.DataFileName)

	items, err := trustedItems(name, req.Items, dataPath)
	if err != nil {
		logger.Warn("rejected action request", "action", name, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var output bytes.Buffer
	executor, err := s.executor(req.Host, &output)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	scripted := &host.Scripted{
		Directory: dir,
		Inputs:    req.Inputs,
		Run:       executor.Execute,
	}
	if req.Confirm != 0 {
		scripted.Confirms = []int{req.Confirm}
	}

	flags, err := kind.New(scripted).Do(r.Context(), name, items)
	switch {
	case errors.Is(err, kind.ErrUnknownAction):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		logger.Error("action failed", "action", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	executed := scripted.Executed()
	if executed == nil {
		executed = []string{}
	}
	writeJSONResponse(w, http.StatusOK, ActionResponse{
		Flags:    flags.String(),
		Executed: executed,
		Output:   output.String(),
	})
}
