package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/config"
)

// metaName is the object-metadata key carrying an attachment's display name.
const metaName = "name"

// BlobStore wraps the S3-compatible bucket holding card attachments, legacy
// card images and profile avatars.
type BlobStore struct {
	client *s3.Client
	bucket string
}

// NewBlobStore builds an S3 client from static credentials and an optional
// custom endpoint (MinIO, R2 and friends need path-style addressing).
func NewBlobStore(ctx context.Context, cfg *config.Config) (*BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey, cfg.S3SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &BlobStore{client: client, bucket: cfg.S3Bucket}, nil
}

// Put uploads one object, overwriting any previous version.
func (b *BlobStore) Put(ctx context.Context, key, name, contentType string, blob []byte) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String(contentType),
	}
	if name != "" {
		in.Metadata = map[string]string{metaName: name}
	}
	if _, err := b.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("putting object %s: %w", key, err)
	}
	return nil
}

// Get downloads one object. A missing key reports common.ErrNotFound.
func (b *BlobStore) Get(ctx context.Context, key string) (blob []byte, name, contentType string, err error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		var notFound *s3types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, "", "", common.ErrNotFound
		}
		return nil, "", "", fmt.Errorf("getting object %s: %w", key, err)
	}
	defer out.Body.Close()

	blob, err = io.ReadAll(out.Body)
	if err != nil {
		return nil, "", "", fmt.Errorf("reading object %s: %w", key, err)
	}
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	name = out.Metadata[metaName]
	return blob, name, contentType, nil
}

// ListKeys enumerates every object key under the given prefix.
func (b *BlobStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("listing prefix %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return keys, nil
		}
		token = out.NextContinuationToken
	}
}

// Delete removes one object. Deleting a missing key is not an error.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every object under the prefix. Used by the
// attachment lifecycle to guarantee replace-wholesale semantics before a
// new set is uploaded.
func (b *BlobStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := b.ListKeys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	objects := make([]s3types.ObjectIdentifier, len(keys))
	for i, k := range keys {
		objects[i] = s3types.ObjectIdentifier{Key: aws.String(k)}
	}
	_, err = b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.bucket),
		Delete: &s3types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("deleting prefix %s: %w", prefix, err)
	}
	return nil
}
