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
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaFunc handles one API Gateway proxy request.
type LambdaFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LambdaHandler adapts svc to API Gateway proxy events. Failures are
// reported through the response status; the returned error is always nil.
func LambdaHandler(svc *Service) LambdaFunc {
	logger := svc.logger.With("transport", "lambda")

	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if req.HTTPMethod == http.MethodOptions {
			return lambdaResponse(http.StatusNoContent, nil), nil
		}

		body := []byte(req.Body)
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return lambdaError(ErrMalformedBody), nil
			}
			body = decoded
		}

		ask, err := decodeRequest(body)
		if err != nil {
			return lambdaError(err), nil
		}

		resp, err := svc.Ask(ctx, ask.Question)
		if err != nil {
			if status, _ := StatusFor(err); status >= http.StatusInternalServerError {
				logger.Error("ask failed", "err", err, "request_id", req.RequestContext.RequestID)
			}
			return lambdaError(err), nil
		}

		return lambdaResponse(http.StatusOK, resp), nil
	}
}

func lambdaError(err error) events.APIGatewayProxyResponse {
	status, msg := StatusFor(err)
	return lambdaResponse(status, errorBody{Error: msg})
}

func lambdaResponse(status int, v any) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type",
		},
	}
	if v == nil {
		return resp
	}

	data, err := json.Marshal(v)
	if err != nil {
		resp.StatusCode = http.StatusInternalServerError
		data = []byte(`{"error":"` + msgInternal + `"}`)
	}
	resp.Body = string(data)
	return resp
}
