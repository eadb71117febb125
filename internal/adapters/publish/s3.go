package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
	"github.com/3-lines-studio/genfig/internal/core"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Prefix is prepended to every object key.
	Prefix string
}

func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

func (c S3Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("s3 endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" || strings.TrimSpace(c.SecretKey) == "" {
		return fmt.Errorf("s3 access key and secret key are required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return fmt.Errorf("s3 bucket is required")
	}
	return nil
}

type S3Publisher struct {
	client   *minio.Client
	fs       fs.FileSystem
	bucket   string
	region   string
	prefix   string
	initOnce sync.Once
	initErr  error
}

func NewS3Publisher(cfg S3Config, fsys fs.FileSystem) (*S3Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(strings.TrimSpace(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	prefix := path.Join(strings.Trim(strings.TrimSpace(cfg.Prefix), "/"), FiguresPrefix)

	return &S3Publisher{
		client: client,
		fs:     fsys,
		bucket: strings.TrimSpace(cfg.Bucket),
		region: region,
		prefix: prefix,
	}, nil
}

func (p *S3Publisher) ensureBucket(ctx context.Context) error {
	p.initOnce.Do(func() {
		exists, err := p.client.BucketExists(ctx, p.bucket)
		if err != nil {
			p.initErr = err
			return
		}
		if exists {
			return
		}
		p.initErr = p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region})
	})
	return p.initErr
}

func (p *S3Publisher) ObjectKey(figureName, file string) string {
	return path.Join(p.prefix, figureName, filepath.Base(file))
}

func (p *S3Publisher) Publish(ctx context.Context, figureName string, files []string) error {
	if err := p.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	for _, file := range files {
		content, err := p.fs.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		key := p.ObjectKey(figureName, file)
		_, err = p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
			ContentType: core.GetContentType(file),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
	}

	return nil
}
