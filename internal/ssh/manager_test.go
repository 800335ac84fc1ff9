package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"cmdl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func writeKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "test")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func TestAuthMethods(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	methods, conn, err := authMethods(config.SSHHost{Name: "none"})
	require.NoError(t, err)
	assert.Empty(t, methods)
	assert.Nil(t, conn)

	methods, _, err = authMethods(config.SSHHost{Name: "pw", Password: "secret"})
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	methods, _, err = authMethods(config.SSHHost{Name: "key", KeyPath: writeKey(t), Password: "secret"})
	require.NoError(t, err)
	assert.Len(t, methods, 2)
}

func TestAuthMethodsBadKey(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	_, _, err := authMethods(config.SSHHost{Name: "missing", KeyPath: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorContains(t, err, "failed to read private key file")

	garbage := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0600))
	_, _, err = authMethods(config.SSHHost{Name: "garbage", KeyPath: garbage})
	assert.ErrorContains(t, err, "failed to parse private key file")
}

func TestGetClientWithoutAuthFails(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	m := NewManager()
	defer m.CloseAll()

	_, err := m.GetClient(config.SSHHost{Name: "nowhere", Hostname: "127.0.0.1", User: "x"})
	assert.ErrorContains(t, err, "no suitable authentication method")
}

// fakeAgent listens on a unix socket and reports when the client side of
// the accepted connection is closed.
func fakeAgent(t *testing.T) (socket string, closed <-chan struct{}) {
	t.Helper()
	socket = filepath.Join(t.TempDir(), "agent.sock")
	l, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	done := make(chan struct{})
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(io.Discard, conn)
		close(done)
	}()
	return socket, done
}

func TestAuthMethodsUsesAgent(t *testing.T) {
	socket, _ := fakeAgent(t)
	t.Setenv("SSH_AUTH_SOCK", socket)

	methods, conn, err := authMethods(config.SSHHost{Name: "agent"})
	require.NoError(t, err)
	require.NotNil(t, conn)
	defer conn.Close()
	assert.Len(t, methods, 1)
}

func TestDialClosesAgentConnection(t *testing.T) {
	socket, closed := fakeAgent(t)
	t.Setenv("SSH_AUTH_SOCK", socket)

	// Reserve a port and free it so the dial is refused.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	_, err = dial(config.SSHHost{Name: "refused", Hostname: "127.0.0.1", Port: port, User: "x"})
	assert.ErrorContains(t, err, "failed to dial ssh host refused (127.0.0.1:"+strconv.Itoa(port)+")")

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("agent connection left open after dial")
	}
}
