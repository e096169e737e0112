// Copyright 2026 The Corsa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httperr

import (
	"encoding/json"
	"net/http"
)

// WriteJSON translates any error into a JSON error body. Structured
// failures serialize with their own status and fields; other errors become
// a best-effort 500 body with the default action and context.
//
// This is the catch-all used by the router's ServeHTTP for handler errors
// that propagate out of dispatch. When the response has already been partly
// written the status line cannot change; the body is still appended so the
// failure is not silently dropped.
func WriteJSON(w http.ResponseWriter, req *http.Request, err error) {
	he := Wrap(err)
	body := he.Serialize()
	if req != nil {
		body["requestedUrl"] = req.URL.Path
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(he.StatusCode())

	data, merr := json.Marshal(body)
	if merr != nil {
		// The serialized map is JSON-safe by construction except for
		// caller-supplied context values; fall back to the bare message.
		data = []byte(`{"message":` + quoteJSON(he.Message) + `,"statusCode":500}`)
	}
	w.Write(data)
}

func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `"internal error"`
	}
	return string(b)
}
