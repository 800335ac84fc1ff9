// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ssh keeps one SSH client per configured host so that executing
// several registered commands on the same remote reuses the connection.
package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cmdl/internal/config"
	"cmdl/internal/logger"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

const dialTimeout = 10 * time.Second

// Manager pools SSH clients by host name. It is safe for concurrent use.
type Manager struct {
	clients map[string]*ssh.Client
	mu      sync.Mutex
}

// NewManager creates an empty connection pool.
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*ssh.Client),
	}
}

// GetClient returns a live client for host, dialing when there is no pooled
// client or the pooled one stopped answering keepalives.
func (m *Manager) GetClient(host config.SSHHost) (*ssh.Client, error) {
	m.mu.Lock()
	if client, found := m.clients[host.Name]; found {
		if _, _, err := client.SendRequest("keepalive@openssh.com", true, nil); err == nil {
			m.mu.Unlock()
			return client, nil
		}
		if err := client.Close(); err != nil {
			logger.Warn("closing stale ssh client", "host", host.Name, "error", err)
		}
		delete(m.clients, host.Name)
	}
	m.mu.Unlock() // dialing can take a while

	newClient, err := dial(host)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, found := m.clients[host.Name]; found {
		// Lost a race with another dial.
		if err := newClient.Close(); err != nil {
			logger.Warn("closing redundant ssh client", "host", host.Name, "error", err)
		}
		return existing, nil
	}
	m.clients[host.Name] = newClient
	return newClient, nil
}

func dial(host config.SSHHost) (*ssh.Client, error) {
	methods, agentConn, err := authMethods(host)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare auth methods for %s: %w", host.Name, err)
	}
	if agentConn != nil {
		// The agent is only consulted during the handshake.
		defer agentConn.Close()
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no suitable authentication method found for %s (key, agent, or password required)", host.Name)
	}

	callback, err := hostKeyCallback()
	if err != nil {
		logger.Warn("host key will not be verified", "host", host.Name, "error", err)
		callback = ssh.InsecureIgnoreHostKey()
	}

	clientConfig := &ssh.ClientConfig{
		User:            host.User,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         dialTimeout,
	}

	port := host.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(host.Hostname, fmt.Sprint(port))

	logger.Debug("dialing ssh host", "host", host.Name, "addr", addr)
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ssh host %s (%s): %w", host.Name, addr, err)
	}
	return client, nil
}

// authMethods tries, in order: the configured key file, the SSH agent, and
// the configured password. When the agent is used its connection is returned
// and the caller closes it once the client is established.
func authMethods(host config.SSHHost) ([]ssh.AuthMethod, net.Conn, error) {
	var methods []ssh.AuthMethod

	if host.KeyPath != "" {
		keyPath, err := config.ResolvePath(host.KeyPath)
		if err != nil {
			keyPath = host.KeyPath
		}

		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read private key file %s: %w", keyPath, err)
		}

		signer, err := ssh.ParsePrivateKey(key)
		var missing *ssh.PassphraseMissingError
		switch {
		case errors.As(err, &missing):
			logger.Warn("skipping passphrase protected key", "path", keyPath)
		case err != nil:
			return nil, nil, fmt.Errorf("failed to parse private key file %s: %w", keyPath, err)
		default:
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}

	var agentConn net.Conn
	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			agentConn = conn
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if host.Password != "" {
		methods = append(methods, ssh.Password(host.Password))
	}

	return methods, agentConn, nil
}

// CloseAll closes every pooled client.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			logger.Warn("closing ssh client", "host", name, "error", err)
		}
		delete(m.clients, name)
	}
}

// hostKeyCallback verifies against ~/.ssh/known_hosts. A missing file falls
// back to accepting any key.
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory for known_hosts: %w", err)
	}
	knownHostsPath := filepath.Join(homeDir, ".ssh", "known_hosts")

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("known_hosts not found, host keys are not verified", "path", knownHostsPath)
			return ssh.InsecureIgnoreHostKey(), nil
		}
		return nil, fmt.Errorf("failed to load known_hosts file %s: %w", knownHostsPath, err)
	}
	return callback, nil
}
