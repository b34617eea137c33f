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

// Package dynamo implements the corpus store on an Amazon DynamoDB table.
//
// Table schema:
//   - Partition key: id (string)
//   - question, answer (string)
//   - embedding (list of numbers)
//   - source, created_at (string, optional)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name qa-documents \
//	  --attribute-definitions AttributeName=id,AttributeType=S \
//	  --key-schema AttributeName=id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
//
// Embeddings are decoded lazily. Besides a list of numbers, a number set or
// a JSON array held in a string attribute are also read, since older
// loaders wrote those forms.
package dynamo
