package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// 업로드 폴더 — 리뷰 사진, 프로필 사진, 제품 사진
var allowedFolders = map[string]bool{
	"reviews":  true,
	"avatars":  true,
	"products": true,
}

// 이미지 업로드만 허용
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// PresignedURLResponse 업로드용 사전 서명 URL 응답
// 클라이언트가 UploadURL로 직접 PUT하고, FileURL을 리뷰/프로필에 저장한다.
// 이미지 바이트는 백엔드를 거치지 않는다.
type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// 자격 증명이 주어지면 사용, 없으면 기본 체인 (환경변수, ~/.aws, IAM role)
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// ValidateUpload 폴더와 콘텐츠 타입 검증
func (s *S3Storage) ValidateUpload(folder, contentType string) error {
	if !allowedFolders[folder] {
		return fmt.Errorf("upload folder %q is not allowed", folder)
	}
	if !allowedImageTypes[contentType] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// GeneratePresignedURL 업로드용 사전 서명 PUT URL 생성 (15분 유효)
func (s *S3Storage) GeneratePresignedURL(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	if err := s.ValidateUpload(folder, contentType); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		// CloudFront 또는 커스텀 도메인
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}
