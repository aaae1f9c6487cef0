// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reply fetches answers from the remote answer-generation endpoint.
//
// Each user turn is one POST with the body {"message": "<text>"}. The endpoint
// answers with a JSON array; the reply is the first element's "output" field,
// then its "text" field, then a fixed placeholder. A structurally unexpected
// body never fails the call.
//
// Failures are reported as *FetchError with one of two kinds:
//
//   - ErrKindHTTPStatus: the endpoint answered with a non-2xx status
//   - ErrKindNetwork: the request never completed, timed out, or the body
//     was not valid JSON
//
// There are no retries.
//
// # Usage
//
//	client := reply.NewClient(reply.Config{URL: cfg.Endpoint.URL})
//	text, err := client.Fetch(ctx, "hello")
//	if reply.IsHTTPStatus(err) {
//	    ...
//	}
package reply
