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

	"github.com/foodgram/backend/config"
)

// ImageStore accepts an inline-encoded image payload and returns a stable
// reference URL for it.
type ImageStore interface {
	Store(ctx context.Context, payload string) (string, error)
}

// S3ImageStore stores recipe images in an S3 bucket as public objects.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Store decodes a base64 data URL ("data:image/png;base64,...."; a bare
// base64 string is accepted too) and uploads it under recipes/.
func (s *S3ImageStore) Store(ctx context.Context, payload string) (string, error) {
	data, contentType, err := decodeImagePayload(payload)
	if err != nil {
		return "", err
	}

	ext := "png"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}

func decodeImagePayload(payload string) ([]byte, string, error) {
	contentType := "image/png"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, "", validationf("malformed image data URL")
		}
		meta := payload[len("data:"):idx]
		encoded = payload[idx+1:]
		if ct := strings.TrimSuffix(meta, ";base64"); ct != "" {
			contentType = ct
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", validationf("image is not valid base64: %v", err)
	}
	if len(data) == 0 {
		return nil, "", validationf("image payload is empty")
	}
	return data, contentType, nil
}
