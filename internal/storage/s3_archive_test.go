package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func archivedSample() *model.SurveyResponse {
	return &model.SurveyResponse{
		ID:        42,
		StoreName: "카페 모카",
		OwnerName: "김철수",
		Email:     "owner@example.com",
		CreatedAt: time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("KST", 9*3600)),
	}
}

func TestS3Archive_ArchiveKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"surveys", `^surveys/2024/05/01/42-[0-9a-f-]{36}\.json$`},
		{"/nested/surveys/", `^nested/surveys/2024/05/01/42-[0-9a-f-]{36}\.json$`},
		{"", `^2024/05/01/42-[0-9a-f-]{36}\.json$`},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			a := newS3Archive(&fakePutter{}, "bucket", tt.prefix)
			assert.Regexp(t, regexp.MustCompile(tt.want), a.ArchiveKey(archivedSample()))
		})
	}
}

func TestS3Archive_Archive(t *testing.T) {
	putter := &fakePutter{}
	a := newS3Archive(putter, "survey-bucket", "surveys")

	key, err := a.Archive(context.Background(), archivedSample())
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	assert.Equal(t, "survey-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "42", putter.input.Metadata["survey-id"])

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(putter.body, &doc))
	assert.Equal(t, "카페 모카", doc["store_name"])
	assert.Contains(t, doc, "archived_at")
}

func TestS3Archive_ArchiveError(t *testing.T) {
	uploadErr := errors.New("AccessDenied")
	a := newS3Archive(&fakePutter{err: uploadErr}, "bucket", "surveys")

	_, err := a.Archive(context.Background(), archivedSample())
	assert.ErrorIs(t, err, uploadErr)
}
