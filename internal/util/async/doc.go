// Package async provides utilities for concurrent task execution with
// error collection.
//
// [RunParallel] executes independent operations concurrently and returns
// every failure joined together. [Future] models a single pending result:
// [Go] starts the work, [Settle] is the join-all barrier that waits for every
// future to resolve, and [AwaitAll] turns a settled set into values or an
// aggregated error.
package async
