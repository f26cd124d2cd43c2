// Package storage provides implementations of domain.AssetStore for event
// image uploads.
package storage

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"eventhub/config"
	"eventhub/internal/domain"
)

// NewAssetStore creates an asset store from config. Provider "s3" uses AWS S3;
// "noop" or unknown uses a no-op store that never persists anything.
func NewAssetStore(cfg config.AssetStoreConfig, logger *slog.Logger) (domain.AssetStore, error) {
	switch cfg.Provider {
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("asset store: S3_BUCKET is required for the s3 provider")
		}
		if cfg.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for S3; use only in development")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: cfg.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		baseURL := cfg.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
		return &s3Store{
			client:  s3.NewFromConfig(awsCfg),
			bucket:  cfg.Bucket,
			baseURL: strings.TrimSuffix(baseURL, "/"),
		}, nil
	case "noop":
		return &noopStore{logger: logger}, nil
	default:
		logger.Warn("unknown asset store provider, using noop", "provider", cfg.Provider)
		return &noopStore{logger: logger}, nil
	}
}

type s3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// Upload stores the bytes under a fresh key in the event-image namespace and
// returns the durable public URL. The key carries no extension so that
// domain.DeriveAssetKey reconstructs it exactly from the URL's last path
// segment; the content type is preserved as object metadata instead.
func (s *s3Store) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	key := domain.AssetNamespace + uuid.NewString()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(normalizeContentType(contentType)),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload asset to S3: %w", err)
	}
	return s.baseURL + "/" + key, key, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset from S3: %w", err)
	}
	return nil
}

func normalizeContentType(ct string) string {
	parsed, _, err := mime.ParseMediaType(ct)
	if err != nil || parsed == "" {
		return "application/octet-stream"
	}
	return parsed
}

type noopStore struct {
	logger *slog.Logger
}

func (n *noopStore) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	key := domain.AssetNamespace + uuid.NewString()
	n.logger.Info("asset would be uploaded (noop)", "key", key, "bytes", len(data), "content_type", contentType)
	return "https://assets.invalid/" + key, key, nil
}

func (n *noopStore) Delete(ctx context.Context, key string) error {
	n.logger.Info("asset would be deleted (noop)", "key", key)
	return nil
}
