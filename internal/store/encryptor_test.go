package store

import (
	"bytes"
	"fmt"
	"io"

	"tripplan/internal/planner"
)

var sealedHeader = []byte("SEALED")

// headerEncryptor marks sealed values with a fixed prefix.
type headerEncryptor struct{}

func (headerEncryptor) Setup(string) error { return nil }

func (headerEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(sealedHeader); err != nil {
		return err
	}
	_, err := io.Copy(w, r)
	return err
}

func (headerEncryptor) Unlock(string) (planner.DecryptionContext, error) {
	return headerDecrypter{}, nil
}

func (headerEncryptor) IsConfigured() bool { return true }

type headerDecrypter struct{}

func (headerDecrypter) Decrypt(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, sealedHeader) {
		return fmt.Errorf("value is not sealed")
	}
	_, err = w.Write(data[len(sealedHeader):])
	return err
}
