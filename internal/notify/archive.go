package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/config"
)

type objectPutter interface {
	PutObject(
		ctx context.Context,
		in *s3.PutObjectInput,
		opts ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

// S3Archiver stores every event as a JSON object, one key per event.
type S3Archiver struct {
	bucket string
	client objectPutter
}

func NewS3Archiver(cfg config.ArchiveConfig) *S3Archiver {
	awsCfg := aws.Config{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{bucket: cfg.Bucket, client: client}
}

func (a *S3Archiver) Name() string { return "s3" }

func (a *S3Archiver) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ObjectKey(ev)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// ObjectKey groups events by day and reservation.
func ObjectKey(ev Event) string {
	return fmt.Sprintf(
		"notifications/%s/reservation-%d/%s-%s.json",
		ev.OccurredAt.UTC().Format("2006/01/02"),
		ev.Reservation.ID,
		ev.Kind.Label(),
		ev.ID.String(),
	)
}
