// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"encoding/json"
)

// EmptyReply is used when the response body has no usable reply text.
const EmptyReply = "I apologize, but I received an empty response."

// ExtractReply pulls the reply text out of a successful response body.
//
// Only invalid JSON is an error. Any other shape (object instead of array,
// empty array, non-object element, missing or non-string fields) degrades to
// EmptyReply.
func ExtractReply(body []byte) (string, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", networkError("malformed JSON response", err)
	}

	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return EmptyReply, nil
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return EmptyReply, nil
	}

	for _, field := range []string{"output", "text"} {
		if s, ok := first[field].(string); ok && s != "" {
			return s, nil
		}
	}
	return EmptyReply, nil
}
