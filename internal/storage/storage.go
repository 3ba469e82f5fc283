// Package storage keeps generated report workbooks in S3-compatible object
// storage and hands out time-limited download links for them.
package storage

import (
	"context"
	"io"
	"path"
	"time"
)

// ExportPrefix is the key prefix under which generated report workbooks are stored.
const ExportPrefix = "exports/"

// XLSXContentType is the MIME type of an Excel workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PutObjectOptions describe an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage stores export files.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL that downloads key without credentials until expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ExportKey places an export file under its own directory so repeated
// exports of the same report never overwrite each other.
func ExportKey(exportID, fileName string) string {
	return ExportPrefix + exportID + "/" + path.Base(fileName)
}
