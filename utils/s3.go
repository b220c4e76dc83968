package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ConfiguredForUploads reports whether proof screenshots should be pushed to
// object storage instead of stored inline.
func S3ConfiguredForUploads() bool {
	return os.Getenv("S3_ACCOUNT_ID") != "" &&
		os.Getenv("S3_ACCESS_KEY_ID") != "" &&
		os.Getenv("S3_SECRET_ACCESS_KEY") != "" &&
		os.Getenv("S3_BUCKET_NAME") != ""
}

// getS3Config returns AWS config for an S3-compatible store (R2 included).
func getS3Config() (aws.Config, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY_ID")
	secretKey := os.Getenv("S3_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return aws.Config{}, fmt.Errorf("S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY is not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"), // Required by SDK, R2 ignores this
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return cfg, nil
}

func getS3Client() (*s3.Client, error) {
	accountID := os.Getenv("S3_ACCOUNT_ID")
	if accountID == "" {
		return nil, fmt.Errorf("S3_ACCOUNT_ID is not set")
	}

	cfg, err := getS3Config()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return client, nil
}

func getS3Bucket() (string, error) {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		return "", fmt.Errorf("S3_BUCKET_NAME is not set")
	}
	return bucket, nil
}

// UploadToS3 uploads a file to the configured bucket.
func UploadToS3(objectName string, file io.Reader, fileSize int64) error {
	bucket, err := getS3Bucket()
	if err != nil {
		return err
	}

	client, err := getS3Client()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("S3 upload failed: %w", err)
	}
	return nil
}

// GenerateSignedURL returns a presigned GET URL for the given object.
func GenerateSignedURL(objectName string, expirySeconds int64) (string, error) {
	bucket, err := getS3Bucket()
	if err != nil {
		return "", err
	}

	client, err := getS3Client()
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	presigned, err := presigner.PresignGetObject(context.TODO(),
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(objectName),
		},
		func(po *s3.PresignOptions) {
			po.Expires = time.Duration(expirySeconds) * time.Second
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign S3 URL: %w", err)
	}
	return presigned.URL, nil
}

// DeleteFromS3 deletes a file from the configured bucket.
func DeleteFromS3(objectName string) error {
	bucket, err := getS3Bucket()
	if err != nil {
		return err
	}

	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("S3 delete failed: %w", err)
	}
	return nil
}
