// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay, and maximum delay. It is used when connecting to freshly
// provisioned clusters and when waiting on cloud network resources.
package retry
