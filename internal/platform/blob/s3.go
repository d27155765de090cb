package blob

import (
	"context"
	"fmt"
	"time"

	appconfig "vibebench/internal/platform/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	publicBaseURL string
	presignTTL    time.Duration
)

// Init configures the S3-compatible client (Cloudflare R2 in production)
// used to authorize direct browser uploads of chat-log files.
func Init() error {
	cfg := appconfig.AppConfig
	bucket = cfg.BlobBucket
	presignTTL = cfg.BlobPresignTTL

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.BlobAccountID)
	publicBaseURL = cfg.BlobPublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = endpoint + "/" + bucket
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.BlobAccessKeyID, cfg.BlobAccessKeySecret, "",
		)),
	)
	if err != nil {
		return fmt.Errorf("failed to load blob storage config: %w", err)
	}

	client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	presigner = s3.NewPresignClient(client)
	return nil
}

// PresignPut returns a short-lived URL the client PUTs the file to
// directly, plus the public URL the object will be served from. The
// caller is responsible for having checked the session first.
func PresignPut(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error) {
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, fmt.Sprintf("%s/%s", publicBaseURL, key), nil
}
