package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const maxScreenshotBytes = 5 << 20

var (
	ErrScreenshotFormat   = errors.New("screenshot must be a base64 data URI")
	ErrScreenshotType     = errors.New("screenshot must be a JPEG or PNG image")
	ErrScreenshotTooLarge = errors.New("screenshot exceeds the 5MB limit")
)

// DecodeScreenshot validates a proof screenshot supplied as a data URI
// (data:image/...;base64,...) and returns the raw image bytes plus the
// sniffed content type. The declared media type is ignored; the actual
// bytes decide.
func DecodeScreenshot(dataURI string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, "", ErrScreenshotFormat
	}
	comma := strings.IndexByte(dataURI, ',')
	if comma < 0 {
		return nil, "", ErrScreenshotFormat
	}
	meta := dataURI[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrScreenshotFormat
	}

	payload := dataURI[comma+1:]
	if base64.StdEncoding.DecodedLen(len(payload)) > maxScreenshotBytes+3 {
		return nil, "", ErrScreenshotTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrScreenshotFormat
	}
	if len(raw) > maxScreenshotBytes {
		return nil, "", ErrScreenshotTooLarge
	}

	contentType := http.DetectContentType(raw)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, "", ErrScreenshotType
	}
	return raw, contentType, nil
}

// StoreScreenshot persists a validated proof image. When object storage is
// configured the image is uploaded and a presigned URL is returned; otherwise
// the original data URI is stored inline.
func StoreScreenshot(userID, taskID uint, dataURI string) (string, error) {
	raw, contentType, err := DecodeScreenshot(dataURI)
	if err != nil {
		return "", err
	}
	if !S3ConfiguredForUploads() {
		return dataURI, nil
	}

	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("proofs/%d/%d-%d%s", userID, taskID, time.Now().UnixNano(), ext)
	if err := UploadToS3(objectName, bytes.NewReader(raw), int64(len(raw))); err != nil {
		return "", err
	}
	return GenerateSignedURL(objectName, int64((7 * 24 * time.Hour).Seconds()))
}
