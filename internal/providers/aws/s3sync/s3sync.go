// Package s3sync mirrors a local directory into an S3 bucket through the S3 API.
//
// It follows the semantics of "aws s3 sync <dir> s3://<bucket>/ --delete": a
// file is uploaded when the bucket lacks it, when the sizes differ or when the
// local copy is newer, and objects without a local counterpart are deleted.
package s3sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"

	"github.com/webship/webship/internal/constants"
)

const defaultContentType = "application/octet-stream"

// S3Client is the subset of the S3 API the syncer needs.
type S3Client interface {
	ListObjectsV2(
		ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
	PutObject(
		ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
	DeleteObjects(
		ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options),
	) (*s3.DeleteObjectsOutput, error)
}

// Sink receives one line per transferred or deleted object.
type Sink interface {
	Log(message string)
}

// Summary counts what a sync did.
type Summary struct {
	Uploaded int
	Deleted  int
	Skipped  int
}

type localFile struct {
	path    string
	size    int64
	modTime time.Time
}

type remoteObject struct {
	size         int64
	lastModified time.Time
}

// Syncer mirrors directories into buckets.
type Syncer struct {
	client      S3Client
	sink        Sink
	logger      *slog.Logger
	concurrency int

	mu sync.Mutex
}

// New creates a Syncer. Concurrency below one is treated as one.
func New(client S3Client, sink Sink, log *slog.Logger, concurrency int) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Syncer{client: client, sink: sink, logger: log, concurrency: concurrency}
}

// NewFromConfig creates a Syncer using an S3 client built from awsCfg.
func NewFromConfig(awsCfg aws.Config, sink Sink, log *slog.Logger, concurrency int) *Syncer {
	return New(s3.NewFromConfig(awsCfg), sink, log, concurrency)
}

// Sync makes the root of bucket mirror localDir.
func (s *Syncer) Sync(ctx context.Context, localDir, bucket string) (*Summary, error) {
	local, err := scanLocal(localDir)
	if err != nil {
		return nil, err
	}

	remote, err := s.listRemote(ctx, bucket)
	if err != nil {
		return nil, err
	}

	uploads, deletes := plan(local, remote)
	summary := &Summary{Skipped: len(local) - len(uploads)}

	s.logger.Debug("sync plan computed", "context", map[string]any{
		"bucket":  bucket,
		"local":   len(local),
		"remote":  len(remote),
		"uploads": len(uploads),
		"deletes": len(deletes),
	})

	if err = s.uploadAll(ctx, bucket, local, uploads); err != nil {
		return nil, err
	}
	summary.Uploaded = len(uploads)

	if err = s.deleteAll(ctx, bucket, deletes); err != nil {
		return nil, err
	}
	summary.Deleted = len(deletes)

	return summary, nil
}

func scanLocal(root string) (map[string]localFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read build directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build path %s is not a directory", root)
	}

	files := make(map[string]localFile)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}

		files[filepath.ToSlash(rel)] = localFile{path: path, size: fi.Size(), modTime: fi.ModTime()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan build directory: %w", err)
	}

	return files, nil
}

func (s *Syncer) listRemote(ctx context.Context, bucket string) (map[string]remoteObject, error) {
	objects := make(map[string]remoteObject)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", bucket, err)
		}
		for i := range page.Contents {
			obj := &page.Contents[i]
			if obj.Key == nil {
				continue
			}
			objects[*obj.Key] = remoteObject{
				size:         aws.ToInt64(obj.Size),
				lastModified: aws.ToTime(obj.LastModified),
			}
		}
	}

	return objects, nil
}

// plan returns the keys to upload and to delete, each sorted.
func plan(local map[string]localFile, remote map[string]remoteObject) (uploads, deletes []string) {
	for key, file := range local {
		obj, ok := remote[key]
		if !ok || obj.size != file.size || file.modTime.After(obj.lastModified) {
			uploads = append(uploads, key)
		}
	}
	for key := range remote {
		if _, ok := local[key]; !ok {
			deletes = append(deletes, key)
		}
	}
	sort.Strings(uploads)
	sort.Strings(deletes)
	return uploads, deletes
}

func (s *Syncer) uploadAll(ctx context.Context, bucket string, local map[string]localFile, keys []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, key := range keys {
		file := local[key]
		g.Go(func() error {
			return s.upload(gctx, bucket, key, file)
		})
	}

	return g.Wait()
}

func (s *Syncer) upload(ctx context.Context, bucket, key string, file localFile) error {
	f, err := os.Open(file.path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.size),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", file.path, err)
	}

	s.emit(fmt.Sprintf("upload: %s to %s", file.path, objectURI(bucket, key)))
	return nil
}

func (s *Syncer) deleteAll(ctx context.Context, bucket string, keys []string) error {
	for start := 0; start < len(keys); start += constants.S3DeleteObjectsBatchSize {
		end := min(start+constants.S3DeleteObjectsBatchSize, len(keys))
		if err := s.deleteBatch(ctx, bucket, keys[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) deleteBatch(ctx context.Context, bucket string, keys []string) error {
	identifiers := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		identifiers = append(identifiers, types.ObjectIdentifier{Key: aws.String(key)})
	}

	output, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: identifiers,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects batch: %w", err)
	}

	failed := make(map[string]struct{}, len(output.Errors))
	var errs []error
	for _, delErr := range output.Errors {
		key := aws.ToString(delErr.Key)
		failed[key] = struct{}{}
		errs = append(errs, fmt.Errorf("delete failed: %s: %s", objectURI(bucket, key), aws.ToString(delErr.Message)))
	}

	for _, key := range keys {
		if _, ok := failed[key]; !ok {
			s.emit("delete: " + objectURI(bucket, key))
		}
	}

	return errors.Join(errs...)
}

// emit serialises sink writes coming from concurrent uploads.
func (s *Syncer) emit(message string) {
	if s.sink == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink.Log(message)
}

func objectURI(bucket, key string) string {
	return constants.S3URIScheme + bucket + "/" + key
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return defaultContentType
}
