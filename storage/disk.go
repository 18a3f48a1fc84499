// Package storage keeps uploaded product images on a local directory or an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"insta-marketplace/config"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Disk is the driver interface every image backend implements.
type Disk interface {
	// Put writes r under key.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL clients use to fetch key.
	URL(key string) string
}

// New boots the disk selected by STORAGE_DISK.
func New(ctx context.Context, conf *config.Config) (Disk, error) {
	switch conf.StorageConfig.Disk {
	case "", "local":
		d, err := NewLocalDisk(conf.StorageConfig.UploadDir, conf.PublicURL+"/uploads")
		if err != nil {
			return nil, err
		}
		return d, nil
	case "s3":
		d, err := NewS3Disk(ctx, conf.StorageConfig.S3)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("storage: disk %q is not supported", conf.StorageConfig.Disk)
}

// NewKey names an uploaded image: image-<unix millis>-<random><ext>.
func NewKey(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("image-%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)
}

// KeyFromURL recovers the storage key from a value produced by URL. Values
// the disk did not produce come back unchanged.
func KeyFromURL(d Disk, value string) string {
	prefix := strings.TrimSuffix(d.URL(""), "/") + "/"
	return strings.TrimPrefix(value, prefix)
}
