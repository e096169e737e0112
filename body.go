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

package corsa

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/corsa-dev/corsa/httperr"
)

// parseRequestBody reads the request body and parses it according to the
// Content-Type header:
//
//	application/json                  → any (decoded JSON)
//	application/x-www-form-urlencoded → url.Values
//	text/plain and everything else    → string
//
// Failures are httperr bad-request failures. A missing body parses as the
// content type's empty value.
func parseRequestBody(req *http.Request) (any, error) {
	if req.Body == nil {
		return "", nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, httperr.BadRequest("request body could not be read").
			WithLocation("parseRequestBody").
			WithContext("cause", err.Error())
	}

	contentType := req.Header.Get("Content-Type")
	mediaType := contentType
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
		}
	}

	switch mediaType {
	case "application/json":
		if len(data) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, httperr.BadRequest("request body is not valid JSON").
				WithLocation("parseRequestBody").
				WithContext("cause", err.Error())
		}
		return v, nil

	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, httperr.BadRequest("request body is not a valid form encoding").
				WithLocation("parseRequestBody").
				WithContext("cause", err.Error())
		}
		return values, nil

	default:
		// text/plain and unrecognized types fall back to plain text.
		return string(data), nil
	}
}
