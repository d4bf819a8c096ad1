package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// S3Config - параметры подключения к S3-совместимому хранилищу.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	MaxUploadMB   int64
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage кладёт материалы в бакет и выдаёт ссылки для прямой загрузки.
type S3Storage struct {
	client         s3API
	presign        *s3.PresignClient
	bucket         string
	publicBaseURL  string
	maxUploadBytes int64
}

// NewS3Storage создаёт клиент S3. Пустой Endpoint означает AWS.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: не задан бакет S3")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось загрузить конфигурацию S3: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = defaultPublicBase(cfg)
	}

	return &S3Storage{
		client:         client,
		presign:        s3.NewPresignClient(client),
		bucket:         cfg.Bucket,
		publicBaseURL:  publicBase,
		maxUploadBytes: cfg.MaxUploadMB * 1024 * 1024,
	}, nil
}

// Save загружает файл в бакет и возвращает его публичный URL.
func (s *S3Storage) Save(ctx context.Context, ownerID uuid.UUID, originalName, contentType string, r io.Reader) (string, int64, error) {
	body, size, err := readLimited(r, s.maxUploadBytes)
	if err != nil {
		return "", 0, err
	}

	key := objectKey(ownerID, originalName)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось загрузить объект %s: %w", key, err)
	}
	return s.publicURL(key), size, nil
}

// PresignUpload возвращает ссылку для загрузки файла напрямую в бакет.
func (s *S3Storage) PresignUpload(ctx context.Context, ownerID uuid.UUID, originalName string) (*PresignedUpload, error) {
	key := objectKey(ownerID, originalName)
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось подписать ссылку для %s: %w", key, err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		PublicURL: s.publicURL(key),
		Key:       key,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

func (s *S3Storage) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *S3Storage) publicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

func objectKey(ownerID uuid.UUID, originalName string) string {
	return path.Join("completions", ownerID.String(), uuid.NewString()+"_"+sanitizeFilename(originalName))
}

func defaultPublicBase(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
