// Package backup copies the portal tree to an S3 compatible bucket.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/student-teacher-portal/internal/config"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

// Roots exported on every run. The journal is operational state and stays out.
var Roots = []string{
	paths.StudentsRoot,
	paths.TeachersRoot,
	paths.MessagesRoot,
	paths.AppointmentsRoot,
	paths.TeacherAppointmentsRoot,
	paths.AuditLogsRoot,
}

// ObjectPutter is the part of *s3.Client the exporter needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func NewS3Client(cfg config.BackupConfig) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type Exporter struct {
	store  docstore.Store
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

func NewExporter(store docstore.Store, client ObjectPutter, bucket, prefix string) *Exporter {
	return &Exporter{
		store:  store,
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Export writes one JSON object per non-empty root under
// {prefix}/{timestamp}/{root}.json and returns the keys written.
func (e *Exporter) Export(ctx context.Context) ([]string, error) {
	stamp := e.now().Format("20060102T150405Z")
	var keys []string

	for _, root := range Roots {
		snap, err := e.store.Get(ctx, root)
		if err != nil {
			return keys, errors.Wrapf(err, "backup: read %s", root)
		}
		if !snap.Exists() {
			continue
		}

		key := fmt.Sprintf("%s/%s/%s.json", e.prefix, stamp, root)
		_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(e.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(snap.Raw()),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return keys, errors.Wrapf(err, "backup: put %s", key)
		}
		keys = append(keys, key)
	}

	log.Printf("backup: exported %d roots to s3://%s/%s/%s", len(keys), e.bucket, e.prefix, stamp)
	return keys, nil
}
