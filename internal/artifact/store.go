// Package artifact stores export artifacts in a local directory or an
// S3-compatible bucket.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adnsv/go-plate/internal/config"
)

type Driver string

const (
	DriverDir Driver = "dir"
	DriverS3  Driver = "s3"
)

// Info describes a stored artifact.
type Info struct {
	Name        string
	Location    string
	Size        int64
	ContentType string
}

// Store persists named artifacts. Put overwrites an existing artifact of
// the same name.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, name string, data []byte, contentType string) (Info, error)
}

var ErrInvalidName = errors.New("artifact: invalid name")

func checkName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// DirStore writes artifacts as files under Root.
type DirStore struct {
	Root string
}

func NewDirStore(root string) (*DirStore, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &DirStore{Root: root}, nil
}

func (s *DirStore) Driver() Driver { return DriverDir }

func (s *DirStore) Put(ctx context.Context, name string, data []byte, contentType string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	if err := checkName(name); err != nil {
		return Info{}, err
	}
	fn := filepath.Join(s.Root, name)
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp, fn); err != nil {
		_ = os.Remove(tmp)
		return Info{}, err
	}
	return Info{Name: name, Location: fn, Size: int64(len(data)), ContentType: contentType}, nil
}

// Open builds the store selected by the output configuration.
func Open(ctx context.Context, cfg config.OutputConfig) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverDir:
		return NewDirStore(cfg.Dir)
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			PathStyle: cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown artifact driver %q", cfg.Driver)
	}
}
