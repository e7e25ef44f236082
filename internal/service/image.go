package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/mealshare/backend/config"
)

// ImageService stores recipe and avatar images. Clients may send either a
// plain URL (passed through) or a base64 data URI, which is decoded and
// uploaded to S3.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Store resolves an image payload to a URL. Data URIs require a configured
// S3 bucket.
func (s *ImageService) Store(ctx context.Context, keyPrefix, payload string) (string, error) {
	if !strings.HasPrefix(payload, "data:") {
		return payload, nil
	}
	if s.s3Config == nil {
		return "", fmt.Errorf("image upload requires S3 storage to be configured")
	}

	meta, data, found := strings.Cut(payload, ",")
	if !found {
		return "", fmt.Errorf("malformed data URI")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	ext := "bin"
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		ext = sub
	}
	key := fmt.Sprintf("%s/%s.%s", keyPrefix, uuid.New().String(), ext)

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
