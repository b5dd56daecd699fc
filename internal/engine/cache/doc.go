// Package cache holds the object detail cache behind the area search.
//
// Each in-world object the search has seen gets one Record, keyed by object
// identity. A Record is created empty and not ready the first time an object
// is scanned, and the same call sends exactly one properties-family request for
// it. The record is filled in place when the response arrives. Key properties:
//   - At most one outstanding request per identity: any record, ready or not,
//     suppresses a new request
//   - A pending counter tracks requests still waiting for their first response
//     and never drops below zero
//   - Records are never evicted one at a time; the whole store is cleared when
//     the user changes region
//
// The store is not safe for concurrent use. It belongs to a single search
// session and is only touched from that session's event loop.
package cache
