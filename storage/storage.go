// Package storage wraps the S3-compatible blob store holding tool, QR and
// return images.
package storage

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"tooltrack/db"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Folders the upload endpoints write under.
const (
	ToolImageFolder   = "Tool_Images/"
	QRImageFolder     = "QR_Images/"
	ReturnImageFolder = "ReturnedTool_Images/"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	KeyPrefix string // e.g. "tooltrack/"
}

type Gateway struct {
	client *minio.Client
	cfg    Config
}

func NewGateway(cfg Config) (*Gateway, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &Gateway{client: client, cfg: cfg}, nil
}

// Upload pushes the local file under prefix+folder+name and returns the
// object URL. The object URL is plain (not signed); the bucket serves reads.
func (g *Gateway) Upload(ctx context.Context, localPath, folder, name string) (string, error) {
	key := ObjectKey(g.cfg.KeyPrefix, folder, name)
	_, err := g.client.FPutObject(ctx, g.cfg.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: ContentTypeFor(name),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return g.objectURL(key), nil
}

// Delete removes the blob addressed by the same key composition the upload
// used. A missing object maps to db.ErrNotFound.
func (g *Gateway) Delete(ctx context.Context, name, folder string) error {
	if name == "" {
		return nil
	}
	key := ObjectKey(g.cfg.KeyPrefix, folder, name)
	if _, err := g.client.StatObject(ctx, g.cfg.Bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return db.ErrNotFound
		}
		return err
	}
	if err := g.client.RemoveObject(ctx, g.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	log.Printf("storage: deleted %s", key)
	return nil
}

func (g *Gateway) objectURL(key string) string {
	scheme := "http"
	if g.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, g.cfg.Endpoint, g.cfg.Bucket, key)
}

// ObjectKey composes prefix + folder + name, tolerating missing or doubled
// slashes in either part.
func ObjectKey(prefix, folder, name string) string {
	return path.Join(strings.Trim(prefix, "/"), strings.Trim(folder, "/"), name)
}

// ContentTypeFor sniffs the content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
