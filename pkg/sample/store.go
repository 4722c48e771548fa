// Package sample reads, trims and downmixes the audio files a pattern
// references on the card.
package sample

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store abstracts access to the card's sample directory so the pipeline can
// run against a mounted SD card, or entirely in memory for the API and tests.
type Store interface {
	Exists(name string) bool
	Open(name string) (io.ReadSeekCloser, error)
}

// DirStore serves samples from a directory on disk.
type DirStore struct {
	Root string
}

func (s DirStore) Exists(name string) bool {
	info, err := os.Stat(filepath.Join(s.Root, name))
	return err == nil && !info.IsDir()
}

func (s DirStore) Open(name string) (io.ReadSeekCloser, error) {
	f, err := os.Open(filepath.Join(s.Root, name))
	if err != nil {
		return nil, &AccessError{Name: name, Err: err}
	}
	return f, nil
}

// MemStore serves samples from memory.
type MemStore map[string][]byte

func (s MemStore) Exists(name string) bool {
	_, ok := s[name]
	return ok
}

func (s MemStore) Open(name string) (io.ReadSeekCloser, error) {
	data, ok := s[name]
	if !ok {
		return nil, &AccessError{Name: name, Err: os.ErrNotExist}
	}
	return nopCloser{bytes.NewReader(data)}, nil
}

// AllPresent reports every sample as existing and none as readable. The API
// server uses it to build timelines for uploaded patterns whose audio was
// not uploaded along.
type AllPresent struct{}

func (AllPresent) Exists(string) bool { return true }

func (AllPresent) Open(name string) (io.ReadSeekCloser, error) {
	return nil, &AccessError{Name: name, Err: fmt.Errorf("sample audio not available")}
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
