package s3cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

const (
	logPrefix     = "s3cache"
	defaultRegion = "us-east-1"
	contentType   = "application/x-msgpack"
)

// ErrNotFound is returned by Download when the object does not exist. It is the normal
// outcome of an empty cache.
var ErrNotFound = fmt.Errorf("cache object not found")

// TransportError is a failure to talk to the object store: credentials, network or any
// backend error other than a missing object.
type TransportError struct {
	Op     string
	Object string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("s3 %s %s: %s", e.Op, e.Object, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config of the object store holding the cache.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	AccessKey string
	SecretKey string

	// RetryMaxAttempts overrides the SDK default when positive.
	RetryMaxAttempts int
	HTTPClient       *http.Client
}

// Client reads and writes single named blobs. Every call uses a fresh S3 client.
type Client struct {
	cfg Config
	log *logrus.Entry
}

// New returns a cache client. Literal carriage returns in the credentials are removed,
// they are a common leftover of env files written on Windows.
func New(cfg Config) *Client {
	if cfg.Bucket == "" {
		cfg.Bucket = consts.DefaultBucket
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	cfg.AccessKey = strings.Replace(cfg.AccessKey, "\r", "", -1)
	cfg.SecretKey = strings.Replace(cfg.SecretKey, "\r", "", -1)

	return &Client{
		cfg: cfg,
		log: logrus.WithFields(logrus.Fields{"prefix": logPrefix, "bucket": cfg.Bucket}),
	}
}

func (c *Client) newS3() *s3.Client {
	opts := s3.Options{
		Region:                     c.cfg.Region,
		UsePathStyle:               c.cfg.PathStyle,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}

	if c.cfg.AccessKey == "" && c.cfg.SecretKey == "" {
		opts.Credentials = aws.AnonymousCredentials{}
	} else {
		opts.Credentials = credentials.NewStaticCredentialsProvider(c.cfg.AccessKey, c.cfg.SecretKey, "")
	}
	if c.cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.cfg.Endpoint)
	}
	if c.cfg.RetryMaxAttempts > 0 {
		opts.RetryMaxAttempts = c.cfg.RetryMaxAttempts
	}
	if c.cfg.HTTPClient != nil {
		opts.HTTPClient = c.cfg.HTTPClient
	}

	return s3.New(opts)
}

// Upload writes data under objectName. Failures are logged and reported as false.
func (c *Client) Upload(ctx context.Context, objectName string, data []byte) bool {
	_, err := c.newS3().PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(objectName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		c.log.WithFields(logrus.Fields{"object": objectName, "error": err}).Error("upload cache object")
		return false
	}

	c.log.WithFields(logrus.Fields{"object": objectName, "bytes": len(data)}).Info("uploaded cache object")
	return true
}

// Download reads objectName. A missing object yields ErrNotFound, any other failure
// a *TransportError.
func (c *Client) Download(ctx context.Context, objectName string) (*schema.CachedBlob, error) {
	out, err := c.newS3().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		if isNotFound(err) {
			c.log.WithField("object", objectName).Debug("cache object not found")
			return nil, ErrNotFound
		}
		return nil, &TransportError{Op: "download", Object: objectName, Err: err}
	}
	defer out.Body.Close()

	data, err := ioutil.ReadAll(out.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", Object: objectName, Err: err}
	}

	var lastModified time.Time
	if out.LastModified != nil {
		lastModified = *out.LastModified
	} else {
		c.log.WithField("object", objectName).Warn("cache object without last modified time")
	}

	return &schema.CachedBlob{
		Data:         data,
		LastModified: lastModified,
	}, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}

	var respErr *smithyhttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
