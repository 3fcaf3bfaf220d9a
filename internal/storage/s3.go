package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Service archives letters to Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     ArchiveOptions
}

func NewS3Service(client *s3.Client, opts ArchiveOptions) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
	}
}

func (s *S3Service) ArchiveLetter(ctx context.Context, userID, letterID, content string) (string, error) {
	if s.opts.Bucket == "" {
		return "", fmt.Errorf("archive bucket is required")
	}
	if userID == "" || letterID == "" {
		return "", fmt.Errorf("user id and letter id are required")
	}

	key := path.Join(strings.Trim(s.opts.KeyPrefix, "/"), userID, letterID+".txt")

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("upload letter %s: %w", letterID, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.opts.Bucket, key), nil
}

var _ Service = (*S3Service)(nil)
