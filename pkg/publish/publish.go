// Package publish uploads rendered images to an S3-compatible bucket.
package publish

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// ErrNotConfigured is returned when the bucket settings are incomplete
var ErrNotConfigured = errors.New("publishing is not configured")

// Config holds the bucket settings, usually read from the environment
type Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string // Empty for AWS itself
	Region    string
	Bucket    string
	Prefix    string // Key prefix inside the bucket
	CDNURL    string // Public base URL; empty to report s3:// URLs
}

// ConfigFromEnv reads the S3_* and CDN_URL variables
func ConfigFromEnv() Config {
	return Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Prefix:    getEnv("S3_PREFIX", "renders"),
		CDNURL:    os.Getenv("CDN_URL"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Validate reports which required settings are missing
func (c Config) Validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if c.AccessKey == "" {
		missing = append(missing, "S3_ACCESS_KEY")
	}
	if c.SecretKey == "" {
		missing = append(missing, "S3_SECRET_KEY")
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrNotConfigured, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// putter is the part of the S3 client the publisher needs
type putter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Publisher uploads PNG renders
type Publisher struct {
	config Config
	client putter
	logger core.Logger
}

// New creates a publisher with an S3 session for cfg
func New(cfg Config, logger core.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	awsConfig := &aws.Config{
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:      aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		// Most S3-compatible stores want path-style addressing
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create S3 session")
	}
	return newPublisher(cfg, s3.New(sess), logger), nil
}

func newPublisher(cfg Config, client putter, logger core.Logger) *Publisher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Publisher{config: cfg, client: client, logger: logger}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// Key builds the object key for a render of sceneID taken at t
func (p *Publisher) Key(sceneID string, t time.Time) string {
	name := unsafeKeyChars.ReplaceAllString(strings.ToLower(sceneID), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "scene"
	}
	file := name + "-" + t.UTC().Format("20060102-150405") + ".png"
	return path.Join(p.config.Prefix, file)
}

// URL returns where key can be fetched from
func (p *Publisher) URL(key string) string {
	if p.config.CDNURL != "" {
		return strings.TrimRight(p.config.CDNURL, "/") + "/" + key
	}
	return "s3://" + p.config.Bucket + "/" + key
}

// PublishImage encodes img as PNG and uploads it under key
func (p *Publisher) PublishImage(ctx context.Context, img image.Image, key string) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "failed to encode PNG")
	}
	return p.Upload(ctx, buf.Bytes(), key)
}

// Upload stores PNG data under key and returns its URL
func (p *Publisher) Upload(ctx context.Context, data []byte, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s", key)
	}

	p.logger.Printf("Uploaded %s (%d bytes)\n", key, size)
	return p.URL(key), nil
}
