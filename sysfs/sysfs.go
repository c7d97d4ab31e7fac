// Package sysfs reads and writes the Librem platform controls exposed by the
// kernel as sysfs text attributes: battery charge thresholds, RAPL power
// limits and LED brightness.
//
// These controls are served by the librem_ec kernel driver and do not use the
// EC command region.
package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ErrOutOfRange indicates a value rejected before it reaches the kernel.
var ErrOutOfRange = errors.New("sysfs: value out of range")

// Sysfs accesses attributes below a root directory on an afero filesystem.
type Sysfs struct {
	fs   afero.Fs
	root string
}

// New creates a Sysfs rooted at root on fs. root is "/" for the live system.
func New(fs afero.Fs, root string) *Sysfs {
	if root == "" {
		root = "/"
	}

	return &Sysfs{fs: fs, root: root}
}

// NewOS creates a Sysfs on the host filesystem.
func NewOS() *Sysfs {
	return New(afero.NewOsFs(), "/")
}

func (s *Sysfs) abs(p string) string {
	return path.Join(s.root, p)
}

// ReadInt reads an integer attribute.
func (s *Sysfs) ReadInt(p string) (int64, error) {
	raw, err := afero.ReadFile(s.fs, s.abs(p))
	if err != nil {
		return 0, fmt.Errorf("sysfs: read %s: %w", p, err)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sysfs: parse %s: %w", p, err)
	}

	return v, nil
}

// WriteInt writes an integer attribute. The attribute must exist.
func (s *Sysfs) WriteInt(p string, v int64) (err error) {
	f, err := s.fs.OpenFile(s.abs(p), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("sysfs: open %s: %w", p, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("sysfs: close %s: %w", p, cerr)
		}
	}()

	if _, err := f.WriteString(strconv.FormatInt(v, 10) + "\n"); err != nil {
		return fmt.Errorf("sysfs: write %s: %w", p, err)
	}

	return nil
}
