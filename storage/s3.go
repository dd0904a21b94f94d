package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoDataTransfered = errors.New("no data transfered")
)

// S3 mirrors cached clip files to an S3 compatible bucket.
type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// NewS3FromEnv reads S3_HOSTNAME, S3_REGION (default "auto"), S3_ACCESS,
// S3_SECRET, S3_BUCKET and the optional S3_PREFIX.
func NewS3FromEnv() (*S3, error) {
	endpoint, exists := os.LookupEnv("S3_HOSTNAME")
	if !exists {
		return nil, fmt.Errorf("missing env var S3_HOSTNAME")
	}
	region, exists := os.LookupEnv("S3_REGION")
	if !exists {
		region = "auto"
	}
	access, exists := os.LookupEnv("S3_ACCESS")
	if !exists {
		return nil, fmt.Errorf("missing env var S3_ACCESS")
	}
	secret, exists := os.LookupEnv("S3_SECRET")
	if !exists {
		return nil, fmt.Errorf("missing env var S3_SECRET")
	}
	bucket, exists := os.LookupEnv("S3_BUCKET")
	if !exists {
		return nil, fmt.Errorf("missing env var S3_BUCKET")
	}
	prefix := os.Getenv("S3_PREFIX")

	logrus.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"region":   region,
		"access":   redact(access),
		"bucket":   bucket,
		"prefix":   prefix,
	}).Infoln("s3 configuration")

	return &S3{
		Endpoint:  endpoint,
		Region:    region,
		AccessKey: access,
		SecretKey: secret,
		Bucket:    bucket,
		Prefix:    prefix,
	}, nil
}

func (s *S3) session() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(s.Region),
		Endpoint:         aws.String(s.Endpoint),
		Credentials:      credentials.NewStaticCredentials(s.AccessKey, s.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to s3; %w", err)
	}
	return sess, nil
}

// Key maps a cache file name to its object key.
func (s *S3) Key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return s.Prefix + "/" + name
}

// Upload streams body to key in parts and checks the object landed.
func (s *S3) Upload(ctx context.Context, key string, body io.Reader) error {
	sess, err := s.session()
	if err != nil {
		return err
	}

	uploader := s3manager.NewUploader(sess)
	_, err = uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}, func(u *s3manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024 // 10MB part size
		u.LeavePartsOnError = false   // on fail delete garbage
	})
	if err != nil {
		return fmt.Errorf("failed putobject; %w", err)
	}

	exists, err := s.KeyExists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check put succeeded; %w", err)
	}
	if !exists {
		return ErrNoDataTransfered
	}

	return nil
}

// Download writes the object at key into w.
func (s *S3) Download(ctx context.Context, key string, w io.WriterAt) (int64, error) {
	sess, err := s.session()
	if err != nil {
		return 0, err
	}

	downloader := s3manager.NewDownloader(sess)
	n, err := downloader.DownloadWithContext(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("failed getobject; %w", err)
	}
	if n == 0 {
		return 0, ErrNoDataTransfered
	}

	return n, nil
}

// KeyExists reports whether a non-empty object exists at key.
func (s *S3) KeyExists(ctx context.Context, key string) (bool, error) {
	sess, err := s.session()
	if err != nil {
		return false, err
	}

	out, err := s3.New(sess).HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			default:
				return false, fmt.Errorf("failed to headobject; %w", err)
			}
		}
		return false, fmt.Errorf("failed to headobject not a awserr; %w", err)
	}
	// don't count a key as 'existing' if its 0 bytes
	if out.ContentLength != nil && *out.ContentLength == 0 {
		return false, nil
	}

	return true, nil
}

func redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
