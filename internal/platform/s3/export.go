package s3

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Exporter writes JSON documents to a fixed bucket.
type Exporter struct {
	Client *Client
	Bucket string
	// Prefix is prepended to every key, e.g. "blueprints/".
	Prefix string
	// CreateBucket creates the bucket on first export when missing.
	CreateBucket bool
}

// Key returns the object key for a deployment of blueprintID.
func (e *Exporter) Key(blueprintID, deploymentID string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s-%s.json",
		e.Prefix, blueprintID, at.UTC().Format("20060102T150405Z"), deploymentID)
}

// ExportJSON marshals v and uploads it under key.
func (e *Exporter) ExportJSON(ctx context.Context, key string, v any) error {
	if e.Client == nil {
		return fmt.Errorf("s3 exporter has no client")
	}
	if e.Bucket == "" {
		return fmt.Errorf("s3 exporter has no bucket")
	}
	key = strings.TrimPrefix(key, "/")

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if e.CreateBucket {
		if err := e.Client.EnsureBucket(ctx, e.Bucket); err != nil {
			return err
		}
	}
	return e.Client.PutObject(ctx, e.Bucket, key, "application/json", data)
}
