// internal/transfer/transfer.go

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	scp "github.com/bramvdbogaerde/go-scp"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"smartPaste/internal/apperr"
	"smartPaste/internal/utils"
)

// copyBufferSize to rozmiar bufora kopiowania przy transferze SFTP.
const copyBufferSize = 128 * 1024

// EnsureDir tworzy zdalny katalog (wraz z rodzicami) przez mkdir -p.
func (c *Client) EnsureDir(dir string) error {
	if !c.connected {
		return apperr.New(apperr.ConnectionFailed, "not connected", nil)
	}

	output, err := c.Exec(fmt.Sprintf("mkdir -p %s", utils.ShellQuote(utils.ToRemotePath(dir))))
	if err != nil {
		return apperr.New(apperr.TransferFailed,
			fmt.Sprintf("failed to create remote directory %s: %s", dir, strings.TrimSpace(string(output))), err)
	}
	return nil
}

// Upload przesyła plik lokalny pod zdalną ścieżkę. Pierwszeństwo ma SFTP;
// gdy serwer nie udostępnia podsystemu sftp, transfer idzie protokołem scp.
// Zwraca liczbę przesłanych bajtów.
func (c *Client) Upload(localPath, remotePath string) (int64, error) {
	if !c.connected {
		return 0, apperr.New(apperr.ConnectionFailed, "not connected", nil)
	}

	remotePath = utils.ToRemotePath(remotePath)

	sftpClient, err := sftp.NewClient(c.sshClient)
	if err != nil {
		// Brak podsystemu sftp po stronie serwera — przejdź na scp
		return c.uploadSCP(localPath, remotePath)
	}
	defer sftpClient.Close()

	return c.uploadSFTP(sftpClient, localPath, remotePath)
}

// uploadSFTP kopiuje plik przez otwartą sesję SFTP z buforowaniem.
func (c *Client) uploadSFTP(sftpClient *sftp.Client, localPath, remotePath string) (int64, error) {
	localFile, err := os.Open(localPath)
	if err != nil {
		return 0, apperr.New(apperr.TransferFailed,
			fmt.Sprintf("failed to open local file %s", localPath), err)
	}
	defer localFile.Close()

	remoteFile, err := sftpClient.Create(remotePath)
	if err != nil {
		return 0, apperr.New(apperr.TransferFailed,
			fmt.Sprintf("failed to create remote file %s", remotePath), err)
	}
	defer remoteFile.Close()

	buf := make([]byte, copyBufferSize)
	written, err := io.CopyBuffer(remoteFile, localFile, buf)
	if err != nil {
		return written, apperr.New(apperr.TransferFailed, "failed to copy file content", err)
	}

	if err := remoteFile.Sync(); err != nil {
		return written, apperr.New(apperr.TransferFailed, "failed to sync remote file", err)
	}

	return written, nil
}

// uploadSCP przesyła plik protokołem scp po istniejącym połączeniu SSH.
func (c *Client) uploadSCP(localPath, remotePath string) (int64, error) {
	localFile, err := os.Open(localPath)
	if err != nil {
		return 0, apperr.New(apperr.TransferFailed,
			fmt.Sprintf("failed to open local file %s", localPath), err)
	}
	defer localFile.Close()

	info, err := localFile.Stat()
	if err != nil {
		return 0, apperr.New(apperr.TransferFailed,
			fmt.Sprintf("failed to stat local file %s", localPath), err)
	}

	scpClient, err := scp.NewClientBySSH(c.sshClient)
	if err != nil {
		return 0, apperr.New(apperr.TransferFailed, "failed to create scp client", err)
	}
	defer scpClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	if err := scpClient.CopyFromFile(ctx, *localFile, remotePath, "0644"); err != nil {
		return 0, apperr.New(apperr.TransferFailed,
			fmt.Sprintf("scp transfer to %s failed", remotePath), err)
	}

	return info.Size(), nil
}

// FileExists weryfikuje obecność pliku po stronie zdalnej. Niezerowy kod
// wyjścia test -f oznacza brak pliku, nie błąd weryfikacji.
func (c *Client) FileExists(remotePath string) (bool, error) {
	if !c.connected {
		return false, apperr.New(apperr.ConnectionFailed, "not connected", nil)
	}

	cmd := fmt.Sprintf("test -f %s && echo OK", utils.ShellQuote(utils.ToRemotePath(remotePath)))
	output, err := c.Exec(cmd)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, apperr.New(apperr.VerificationFailed, "failed to verify remote file", err)
	}

	return strings.TrimSpace(string(output)) == "OK", nil
}
