// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

//go:build integration
// +build integration

package aws

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_FetchObject round trips a workbook through a real bucket.
// Requires AWS credentials in the environment.
func TestIntegration_FetchObject(t *testing.T) {
	ctx := context.Background()

	cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"))
	require.NoError(t, err)
	client := NewS3(cfg)

	bucket := fmt.Sprintf("bomctl-test-%d", time.Now().UnixNano())
	key := "rev-a/bom.xlsx"
	data := []byte("not really a workbook")

	_, err = client.CreateBucket(ctx, &s3v2.CreateBucketInput{Bucket: awsv2.String(bucket)})
	require.NoError(t, err)
	defer func() {
		client.DeleteObject(ctx, &s3v2.DeleteObjectInput{Bucket: awsv2.String(bucket), Key: awsv2.String(key)})
		client.DeleteBucket(ctx, &s3v2.DeleteBucketInput{Bucket: awsv2.String(bucket)})
	}()

	_, err = client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   bytes.NewReader(data),
	})
	require.NoError(t, err)

	got, err := FetchObject(ctx, "s3://"+bucket+"/"+key, WithRegion("us-east-1"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
