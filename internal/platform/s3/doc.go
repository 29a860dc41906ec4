// Package s3 exports deployment summaries to S3 or any S3-compatible
// object storage.
package s3
