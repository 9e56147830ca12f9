package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/marketing-survey/config"
	"github.com/ikkim/marketing-survey/internal/app/model"
)

// objectPutter is the slice of the S3 client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores a JSON copy of every accepted survey response.
type S3Archive struct {
	client objectPutter
	bucket string
	prefix string
}

func NewS3Archive(cfg *config.S3Config) *S3Archive {
	var awsCfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return newS3Archive(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix)
}

func newS3Archive(client objectPutter, bucket, prefix string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// ArchiveKey builds {prefix}/YYYY/MM/DD/{id}-{uuid}.json from the UTC creation date.
func (a *S3Archive) ArchiveKey(survey *model.SurveyResponse) string {
	created := survey.CreatedAt.UTC()
	name := fmt.Sprintf("%s/%d-%s.json", created.Format("2006/01/02"), survey.ID, uuid.New().String())
	if a.prefix == "" {
		return name
	}
	return a.prefix + "/" + name
}

type archivedSurvey struct {
	*model.SurveyResponse
	ArchivedAt time.Time `json:"archived_at"`
}

func (a *S3Archive) Archive(ctx context.Context, survey *model.SurveyResponse) (string, error) {
	body, err := json.Marshal(archivedSurvey{SurveyResponse: survey, ArchivedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to encode survey %d: %w", survey.ID, err)
	}

	key := a.ArchiveKey(survey)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"survey-id": fmt.Sprint(survey.ID),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload survey archive: %w", err)
	}

	return key, nil
}
