// Package storage stores question images in an S3-compatible bucket and
// tracks which stored objects a question description references.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Options configures the image store connection
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // base URL clients use to fetch objects, e.g. https://cdn.example.com
	UseSSL    bool
}

// ImageStore uploads and removes question images
type ImageStore struct {
	client     *minio.Client
	bucket     string
	publicURL  string
	keyPattern *regexp.Regexp
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// New connects to the object store and ensures the bucket exists
func New(ctx context.Context, opts Options) (*ImageStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
		log.Printf("Created bucket %s", opts.Bucket)
	}

	publicURL := strings.TrimRight(opts.PublicURL, "/")
	return &ImageStore{
		client:     client,
		bucket:     opts.Bucket,
		publicURL:  publicURL,
		keyPattern: buildKeyPattern(publicURL, opts.Bucket),
	}, nil
}

func buildKeyPattern(publicURL, bucket string) *regexp.Regexp {
	return regexp.MustCompile(
		regexp.QuoteMeta(publicURL+"/"+bucket+"/") + `(questions/[0-9a-f]{24}\.(?:jpg|png))`,
	)
}

// UploadDataURL decodes a base64 data URL ("data:image/png;base64,...")
// and stores it under a fresh object key. Returns the public URL of the
// stored image.
func (s *ImageStore) UploadDataURL(ctx context.Context, dataURL string) (string, error) {
	contentType, payload, err := parseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("invalid base64 image data: %w", err)
	}

	objectKey := "questions/" + primitive.NewObjectID().Hex() + ext
	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return s.publicURL + "/" + s.bucket + "/" + objectKey, nil
}

// Remove deletes a stored object by key
func (s *ImageStore) Remove(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

// ExtractObjectKeys returns the keys of all stored images referenced by
// the given description. Used on question update/delete to clean up
// objects no longer referenced.
func (s *ImageStore) ExtractObjectKeys(description string) []string {
	matches := s.keyPattern.FindAllStringSubmatch(description, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m[1])
	}
	return keys
}

func parseDataURL(dataURL string) (contentType, payload string, err error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return "", "", fmt.Errorf("invalid image format, expected base64-encoded data URL")
	}
	rest := strings.TrimPrefix(dataURL, "data:")
	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return "", "", fmt.Errorf("invalid image format, expected base64-encoded data URL")
	}
	return rest[:idx], rest[idx+len(";base64,"):], nil
}
