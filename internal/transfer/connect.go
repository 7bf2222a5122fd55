// internal/transfer/connect.go

package transfer

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"smartPaste/internal/apperr"
	"smartPaste/internal/models"
	"smartPaste/internal/utils"
)

const (
	knownHostsFileName = "known_hosts"
	defaultTimeout     = 10 * time.Second
)

// Options konfiguruje klienta połączeń.
type Options struct {
	// Timeout ogranicza handshake (banner/auth) połączenia.
	Timeout time.Duration

	// KnownHostsPath to ścieżka naszego pliku known_hosts. Pusta wartość
	// oznacza domyślną lokalizację w katalogu konfiguracyjnym.
	KnownHostsPath string

	// IdentityFiles to preferowane klucze (np. z aliasu konfiguracji SSH),
	// próbowane przed agentem i kluczami domyślnymi.
	IdentityFiles []string

	// Password to opcjonalne hasło próbowane po wszystkich kluczach.
	Password string
}

// Client utrzymuje połączenie SSH do zdalnego hosta z kontekstu.
type Client struct {
	opts      Options
	sshClient *ssh.Client
	ctx       models.ConnectionContext
	connected bool
}

// NewClient tworzy klienta z podanymi opcjami.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.KnownHostsPath == "" {
		opts.KnownHostsPath = defaultKnownHostsPath()
	}
	return &Client{opts: opts}
}

// defaultKnownHostsPath zwraca ścieżkę naszego pliku known_hosts.
func defaultKnownHostsPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return knownHostsFileName
	}
	return filepath.Join(homeDir, ".smartpaste", "ssh", knownHostsFileName)
}

// defaultKeyPaths zwraca standardowe lokalizacje kluczy prywatnych.
func defaultKeyPaths() []string {
	return []string{
		"~/.ssh/id_rsa",
		"~/.ssh/id_ecdsa",
		"~/.ssh/id_ed25519",
		"~/.ssh/id_dsa",
	}
}

// Connect nawiązuje połączenie SSH do hosta z kontekstu. Klucz hosta jest
// weryfikowany względem naszego known_hosts; nieznany host jest najpierw
// pobierany i zapisywany. Handshake jest ograniczony czasowo.
func (c *Client) Connect(connCtx models.ConnectionContext) error {
	if c.connected {
		return nil
	}

	if err := c.ensureHostKey(connCtx); err != nil {
		return err
	}

	hostKeyCallback, err := knownhosts.New(c.opts.KnownHostsPath)
	if err != nil {
		return apperr.New(apperr.ConnectionFailed, "failed to create host key callback", err)
	}

	auths := c.authMethods()
	if len(auths) == 0 {
		return apperr.New(apperr.AuthenticationFailed, "no usable authentication method (keys or agent)", nil)
	}

	sshConfig := &ssh.ClientConfig{
		User:            connCtx.Username,
		Auth:            auths,
		HostKeyCallback: hostKeyCallback,
		Timeout:         c.opts.Timeout,
	}

	// Limit czasu egzekwowany przez kontekst — Dial potrafi wisieć na
	// handshake'u dłużej niż sam timeout TCP
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		client, err := ssh.Dial("tcp", connCtx.Addr(), sshConfig)
		if err != nil {
			errChan <- classifyDialError(err)
			return
		}
		c.sshClient = client
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return apperr.New(apperr.ConnectionFailed,
			fmt.Sprintf("connection timeout: %s is unreachable", connCtx.Addr()), nil)
	}

	c.ctx = connCtx
	c.connected = true
	return nil
}

// classifyDialError rozdziela błędy uwierzytelnienia od błędów połączenia.
func classifyDialError(err error) error {
	if strings.Contains(err.Error(), "unable to authenticate") {
		return apperr.New(apperr.AuthenticationFailed, "authentication failed", err)
	}
	return apperr.New(apperr.ConnectionFailed, "failed to connect", err)
}

// authMethods buduje metody uwierzytelnienia w kolejności: jawne klucze,
// agent SSH, klucze domyślne.
func (c *Client) authMethods() []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if signers := loadSigners(c.opts.IdentityFiles); len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			ag := agent.NewClient(conn)
			methods = append(methods, ssh.PublicKeysCallback(ag.Signers))
		}
	}

	if signers := loadSigners(defaultKeyPaths()); len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if c.opts.Password != "" {
		methods = append(methods, ssh.Password(c.opts.Password))
	}

	return methods
}

// loadSigners wczytuje i parsuje klucze prywatne; nieczytelne pomija.
func loadSigners(paths []string) []ssh.Signer {
	var signers []ssh.Signer
	for _, p := range paths {
		data, err := os.ReadFile(utils.ExpandUser(p))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			continue
		}
		signers = append(signers, signer)
	}
	return signers
}

// ensureHostKey dba o to, żeby klucz hosta był znany przed połączeniem.
func (c *Client) ensureHostKey(connCtx models.ConnectionContext) error {
	known, err := c.hostKeyKnown(connCtx)
	if err != nil {
		return err
	}
	if known {
		return nil
	}
	return c.fetchAndSaveHostKey(connCtx)
}

// hostKeyKnown sprawdza czy host ma już wpis w naszym known_hosts.
func (c *Client) hostKeyKnown(connCtx models.ConnectionContext) (bool, error) {
	content, err := os.ReadFile(c.opts.KnownHostsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperr.New(apperr.ConnectionFailed, "failed to read known_hosts", err)
	}

	hostFormat := knownHostsLine(connCtx)
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, hostFormat+" ") {
			return true, nil
		}
	}
	return false, nil
}

// fetchAndSaveHostKey łączy się z hostem wyłącznie po to, żeby pobrać
// jego klucz publiczny, i zapisuje go do naszego known_hosts. Błąd
// autoryzacji jest tu oczekiwany — klucz hosta przychodzi wcześniej.
func (c *Client) fetchAndSaveHostKey(connCtx models.ConnectionContext) error {
	knownHostsDir := filepath.Dir(c.opts.KnownHostsPath)
	if err := os.MkdirAll(knownHostsDir, 0700); err != nil {
		return apperr.New(apperr.ConnectionFailed,
			fmt.Sprintf("failed to create directory %s", knownHostsDir), err)
	}

	hostKeyChan := make(chan ssh.PublicKey, 1)
	probeConfig := &ssh.ClientConfig{
		User: connCtx.Username,
		Auth: []ssh.AuthMethod{},
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			hostKeyChan <- key
			return nil
		},
		Timeout: c.opts.Timeout,
	}

	if conn, err := ssh.Dial("tcp", connCtx.Addr(), probeConfig); err == nil {
		conn.Close()
	}

	close(hostKeyChan)
	hostKey, ok := <-hostKeyChan
	if !ok || hostKey == nil {
		return apperr.New(apperr.ConnectionFailed,
			fmt.Sprintf("could not retrieve host key from %s", connCtx.Addr()), nil)
	}

	hostFormat := knownHostsLine(connCtx)
	authorizedKey := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(hostKey)))
	newKeyLine := fmt.Sprintf("%s %s", hostFormat, authorizedKey)

	// Wymień poprzednie wpisy dla tego hosta, zachowaj resztę
	var existing []string
	if content, err := os.ReadFile(c.opts.KnownHostsPath); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !strings.HasPrefix(line, hostFormat+" ") {
				existing = append(existing, line)
			}
		}
	}

	allKeys := append(existing, newKeyLine)
	content := strings.Join(allKeys, "\n") + "\n"
	if err := os.WriteFile(c.opts.KnownHostsPath, []byte(content), 0600); err != nil {
		return apperr.New(apperr.ConnectionFailed, "failed to write known_hosts file", err)
	}

	return nil
}

// knownHostsLine zwraca format adresu hosta używany w known_hosts.
func knownHostsLine(connCtx models.ConnectionContext) string {
	if connCtx.EffectivePort() == models.DefaultSSHPort {
		return connCtx.Hostname
	}
	return fmt.Sprintf("[%s]:%d", connCtx.Hostname, connCtx.EffectivePort())
}

// Exec wykonuje pojedyncze zdalne polecenie i zwraca jego wyjście.
func (c *Client) Exec(command string) ([]byte, error) {
	if !c.connected {
		return nil, apperr.New(apperr.ConnectionFailed, "not connected", nil)
	}

	session, err := c.sshClient.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %v", err)
	}
	defer session.Close()

	return session.CombinedOutput(command)
}

// IsConnected sprawdza czy połączenie jest aktywne.
func (c *Client) IsConnected() bool {
	return c.connected && c.sshClient != nil
}

// Context zwraca kontekst, z którym klient jest połączony.
func (c *Client) Context() models.ConnectionContext {
	return c.ctx
}

// Close zamyka połączenie.
func (c *Client) Close() error {
	c.connected = false
	if c.sshClient != nil {
		err := c.sshClient.Close()
		c.sshClient = nil
		if err != nil {
			return fmt.Errorf("error closing SSH client: %v", err)
		}
	}
	return nil
}
