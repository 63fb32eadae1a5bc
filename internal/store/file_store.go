package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"certchat/internal/domain"
)

// File name suffixes for detached signatures.
const (
	SuffixECDSA = ".sig.json"
	SuffixHMAC  = ".hmac.json"
)

// FileStore resolves relative paths against a home directory and serialises
// writes.
type FileStore struct {
	mu     sync.Mutex
	home   string
	scrypt ScryptParams
}

// NewFileStore returns a FileStore rooted at home.
func NewFileStore(home string) *FileStore {
	return &FileStore{home: home, scrypt: DefaultScryptParams()}
}

// WithScrypt overrides the scrypt cost for new sealed exports.
func (s *FileStore) WithScrypt(p ScryptParams) *FileStore {
	s.scrypt = p
	return s
}

// Home returns the home directory.
func (s *FileStore) Home() string { return s.home }

// Resolve returns path joined to home unless it is absolute.
func (s *FileStore) Resolve(path string) string {
	if filepath.IsAbs(path) || s.home == "" {
		return path
	}
	return filepath.Join(s.home, path)
}

// SignaturePath returns the default signature file path for a document.
func SignaturePath(documentPath, algorithm string) string {
	if algorithm == domain.AlgorithmHMAC {
		return documentPath + SuffixHMAC
	}
	return documentPath + SuffixECDSA
}

// WriteSignatureFile atomically writes an encoded signature file.
func (s *FileStore) WriteSignatureFile(path string, data []byte) (string, error) {
	path = s.Resolve(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write signature %s: %w", path, err)
	}
	return path, nil
}

// ReadSignatureFile reads an encoded signature file.
func (s *FileStore) ReadSignatureFile(path string) ([]byte, error) {
	return readFile(s.Resolve(path))
}

// ErrKeyExists is returned by ExportSessionKey when path already holds a file.
var ErrKeyExists = errors.New("key file already exists")

// ExportSessionKey writes the base64 key to a new file at path with mode
// 0600. A non-empty passphrase seals it first. An existing file is never
// replaced; see ReplaceSessionKey.
func (s *FileStore) ExportSessionKey(path, keyB64, passphrase string) (string, error) {
	return s.exportKey(path, keyB64, passphrase, writeFileExclusive)
}

// ReplaceSessionKey is ExportSessionKey that atomically overwrites path.
func (s *FileStore) ReplaceSessionKey(path, keyB64, passphrase string) (string, error) {
	return s.exportKey(path, keyB64, passphrase, writeFile)
}

func (s *FileStore) exportKey(
	path, keyB64, passphrase string,
	write func(string, []byte, os.FileMode) error,
) (string, error) {
	path = s.Resolve(path)
	data := []byte(keyB64 + "\n")
	if passphrase != "" {
		sealed, err := seal(passphrase, []byte(keyB64), s.scrypt)
		if err != nil {
			return "", err
		}
		data = sealed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := write(path, data, 0o600); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("export key %s: %w", path, ErrKeyExists)
		}
		return "", fmt.Errorf("export key %s: %w", path, err)
	}
	return path, nil
}

// ImportSessionKey reads a key written by ExportSessionKey. Sealed files need
// the passphrase; plain files ignore it.
func (s *FileStore) ImportSessionKey(path, passphrase string) (string, error) {
	data, err := readFile(s.Resolve(path))
	if err != nil {
		return "", err
	}
	trimmed := bytes.TrimSpace(data)
	if IsSealed(trimmed) {
		if passphrase == "" {
			return "", ErrEmptyPassphrase
		}
		pt, err := open(passphrase, trimmed)
		if err != nil {
			return "", err
		}
		return string(pt), nil
	}
	return strings.TrimSpace(string(trimmed)), nil
}

// IsSealed reports whether data looks like a sealed key blob.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// Remove deletes path if it exists.
func (s *FileStore) Remove(path string) error {
	err := os.Remove(s.Resolve(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
