// Package backup uploads store snapshots to an S3-compatible bucket.
package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"vie_bot/internal/config"
	"vie_bot/internal/logger"
	"vie_bot/internal/metrics"
	"vie_bot/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 client a backup needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	log    *slog.Logger
}

// New builds an uploader for cfg. It returns nil, nil when no bucket is set.
func New(ctx context.Context, cfg config.BackupConfig) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewUploader(client, cfg.Bucket, cfg.Prefix), nil
}

func NewUploader(client ObjectPutter, bucket, prefix string) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    logger.With("component", "backup"),
	}
}

// Key is the object key of a snapshot: <prefix>/2006/01/02/150405.json.gz.
func (u *Uploader) Key(snap store.Snapshot) string {
	t := snap.TakenAt.UTC()
	return path.Join(u.prefix, t.Format("2006/01/02"), t.Format("150405")+".json.gz")
}

// Upload writes snap as gzipped JSON and returns the object key.
func (u *Uploader) Upload(ctx context.Context, snap store.Snapshot) (string, error) {
	key := u.Key(snap)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		metrics.Backups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		metrics.Backups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	size := buf.Len()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(u.bucket),
		Key:             aws.String(key),
		Body:            &buf,
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		metrics.Backups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("upload snapshot %s: %w", key, err)
	}
	metrics.Backups.WithLabelValues("ok").Inc()
	u.log.Info("snapshot uploaded", "key", key, "bytes", size, "players", len(snap.Players), "guilds", len(snap.Guilds))
	return key, nil
}
