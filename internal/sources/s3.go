package sources

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3SourceConfig holds the settings for an S3-hosted textbook bucket.
type S3SourceConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// CacheDir receives downloaded PDFs; defaults to the OS temp dir.
	CacheDir string
}

// S3Source serves PDFs from an S3 bucket, downloading each document into a
// local cache before it is read.
type S3Source struct {
	client   *s3.Client
	bucket   string
	cacheDir string
}

func NewS3Source(ctx context.Context, cfg S3SourceConfig) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "prepbuddy-textbooks")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &S3Source{client: client, bucket: cfg.Bucket, cacheDir: cacheDir}, nil
}

// List returns the PDF object keys in the bucket, sorted.
func (s *S3Source) List(ctx context.Context) ([]string, error) {
	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if isPDF(key) {
				names = append(names, key)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// Fetch downloads the object into the cache directory and returns the
// local path. An already cached copy is reused.
func (s *S3Source) Fetch(ctx context.Context, name string) (string, error) {
	path := filepath.Join(s.cacheDir, filepath.Base(name))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s: %w", name, err)
	}
	defer out.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to download object %s: %w", name, err)
	}
	return path, nil
}
