package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
)

// Config holds S3 archive configuration
type Config struct {
	AccessKeyID     string `validate:"required_if=Enabled true"`
	SecretAccessKey string `validate:"required_if=Enabled true"`
	Region          string `validate:"required_if=Enabled true"`
	BucketName      string `validate:"required_if=Enabled true"`
	EndpointURL     string `validate:"omitempty,url"` // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetBool("S3_ARCHIVE_ENABLED", false),
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid S3 archive config: %w", err)
	}
	return config, nil
}

// IsEnabled returns true if the S3 archive is enabled
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}

// ObjectKey builds the key of an archived webhook payload:
// webhooks/<provider>/YYYY/MM/DD/<event id>.json
func ObjectKey(provider, eventID string, receivedAt time.Time) string {
	t := receivedAt.UTC()
	id := strings.NewReplacer("/", "_", "\\", "_").Replace(eventID)
	return fmt.Sprintf("webhooks/%s/%04d/%02d/%02d/%s.json", provider, t.Year(), int(t.Month()), t.Day(), id)
}
