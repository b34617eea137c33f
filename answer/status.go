// Copyright 2025 Poiesic Systems
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

package answer

import (
	"errors"
	"net/http"

	"github.com/poiesic/qabot/core"
)

// Client-facing error messages. Nothing else about a failure is exposed.
const (
	msgQuestionRequired = "question is required"
	msgInvalidBody      = "invalid request body"
	msgInternal         = "internal server error"
)

// StatusFor maps an Ask or decode error to an HTTP status and a generic message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		return http.StatusBadRequest, msgQuestionRequired
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, msgInvalidBody
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// errorBody is the JSON body of every error response.
type errorBody struct {
	Error string `json:"error"`
}
