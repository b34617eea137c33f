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

package dynamo

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poiesic/qabot/core"
)

// attributeEmbedding is a stored embedding attribute, decoded on demand.
type attributeEmbedding struct {
	av types.AttributeValue
}

var _ core.Embedding = attributeEmbedding{}

func (a attributeEmbedding) Vector() (core.Vector, error) {
	var vec core.Vector
	switch v := a.av.(type) {
	case *types.AttributeValueMemberL:
		vec = make(core.Vector, len(v.Value))
		for i, elem := range v.Value {
			n, ok := elem.(*types.AttributeValueMemberN)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, not a number", core.ErrRecordParse, i, elem)
			}
			f, err := parseFloat(n.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: element %d: %w", core.ErrRecordParse, i, err)
			}
			vec[i] = f
		}
	case *types.AttributeValueMemberNS:
		return nil, fmt.Errorf("%w: number set embeddings are unordered", core.ErrRecordParse)
	case *types.AttributeValueMemberS:
		if err := json.Unmarshal([]byte(v.Value), &vec); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrRecordParse, err)
		}
	case *types.AttributeValueMemberNULL:
		return nil, core.ErrMissingEmbedding
	default:
		return nil, fmt.Errorf("%w: unsupported embedding attribute %T", core.ErrRecordParse, a.av)
	}

	if len(vec) == 0 {
		return nil, core.ErrMissingEmbedding
	}
	return vec, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// embeddingAttribute encodes a vector as a list of numbers.
func embeddingAttribute(vec core.Vector) types.AttributeValue {
	elems := make([]types.AttributeValue, len(vec))
	for i, f := range vec {
		elems[i] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(f), 'g', -1, 32)}
	}
	return &types.AttributeValueMemberL{Value: elems}
}
