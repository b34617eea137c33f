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

// Package maintain provides corpus maintenance operations.
//
// A Purger deletes records selected by source tag or id prefix, such as the
// "test-" fixtures loaded during development. A Reembedder regenerates every
// record's embedding with the current embedder, which is required after
// switching embedding models since vectors from different models are not
// comparable.
//
// # Usage
//
//	r, err := maintain.NewReembedder(repo, embedder, maintain.WithProgress(os.Stderr))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := r.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Progress is reported to the configured writer.
package maintain
