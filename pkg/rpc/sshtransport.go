package rpc

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SSHTransport runs a provider binary on a remote host over SSH,
// piping its stdin/stdout through the session exactly like
// LocalTransport does for a local child process. It optionally
// uploads the binary via SFTP before starting it.
type SSHTransport struct {
	addr       string
	config     *ssh.ClientConfig
	remotePath string
	localPath  string // non-empty: uploaded via SFTP before Start

	client  *ssh.Client
	session *ssh.Session
}

// NewSSHTransport builds an SSHTransport dialing addr ("host:port")
// with the given client config, running remotePath on the remote
// host once started.
func NewSSHTransport(addr string, config *ssh.ClientConfig, remotePath string) *SSHTransport {
	return &SSHTransport{addr: addr, config: config, remotePath: remotePath}
}

// WithUpload configures the transport to copy localPath to remotePath
// via SFTP before starting the remote process.
func (t *SSHTransport) WithUpload(localPath string) *SSHTransport {
	t.localPath = localPath
	return t
}

// Start dials the SSH host, optionally uploads the provider binary,
// and starts it, returning its stdin/stdout pipes.
func (t *SSHTransport) Start(ctx context.Context) (io.WriteCloser, io.ReadCloser, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", t.addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, t.addr, t.config)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to establish ssh connection: %w", err)
	}
	t.client = ssh.NewClient(sshConn, chans, reqs)

	if t.localPath != "" {
		if err := t.upload(); err != nil {
			t.client.Close()
			return nil, nil, err
		}
	}

	session, err := t.client.NewSession()
	if err != nil {
		t.client.Close()
		return nil, nil, fmt.Errorf("failed to open ssh session: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		t.client.Close()
		return nil, nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		t.client.Close()
		return nil, nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := session.Start(t.remotePath); err != nil {
		session.Close()
		t.client.Close()
		return nil, nil, fmt.Errorf("failed to start remote provider: %w", err)
	}

	t.session = session
	return stdin, nopCloser{stdout}, nil
}

func (t *SSHTransport) upload() error {
	sftpClient, err := sftp.NewClient(t.client)
	if err != nil {
		return fmt.Errorf("failed to open sftp client: %w", err)
	}
	defer sftpClient.Close()

	local, err := os.Open(t.localPath)
	if err != nil {
		return fmt.Errorf("failed to open local provider binary %s: %w", t.localPath, err)
	}
	defer local.Close()

	remote, err := sftpClient.Create(t.remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", t.remotePath, err)
	}
	defer remote.Close()

	if _, err := io.Copy(remote, local); err != nil {
		return fmt.Errorf("failed to upload provider binary: %w", err)
	}

	return sftpClient.Chmod(t.remotePath, 0o755)
}

// Close waits for the remote process to exit and tears down the
// session and connection.
func (t *SSHTransport) Close() error {
	var firstErr error
	if t.session != nil {
		if err := t.session.Wait(); err != nil {
			firstErr = err
		}
	}
	if t.client != nil {
		if err := t.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// nopCloser adapts an io.Reader that already closes with its session
// to the io.ReadCloser Transport requires.
type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

// DefaultDialTimeout is used by callers building an *ssh.ClientConfig
// for NewSSHTransport.
const DefaultDialTimeout = 10 * time.Second
