package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectPrefix is the logical folder item images are stored under.
const ObjectPrefix = "khoj-items"

// MediaStore uploads processed images to MinIO and issues their public
// retrieval URLs. Only URLs are persisted by the rest of the system.
type MediaStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// Options configures a MediaStore connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	BaseURL   string
}

// NewMediaStore connects to MinIO and ensures the bucket exists with a
// public-read policy so issued URLs resolve without presigning.
func NewMediaStore(ctx context.Context, opts Options) (*MediaStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
		}
		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}]
		}`, opts.Bucket)
		if err := client.SetBucketPolicy(ctx, opts.Bucket, policy); err != nil {
			return nil, fmt.Errorf("set bucket policy: %w", err)
		}
	}

	return &MediaStore{client: client, bucket: opts.Bucket, baseURL: opts.BaseURL}, nil
}

// Put uploads one object and returns its public URL.
func (s *MediaStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s", ObjectPrefix, name)
	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName), nil
}
