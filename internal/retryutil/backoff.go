// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retryutil composes go-retry backoffs from a small set of
// named knobs, the way every retryable I/O path in this repo wants
// one: a maximum retry count, jitter, and absolute caps on both a
// single wait and the overall retry window.
package retryutil

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// Backoff composes b with the given knobs, skipping any that are zero.
func Backoff(b retry.Backoff, maxRetries uint64, jitter, cappedDuration, maxDuration time.Duration) retry.Backoff {
	backoff := b
	if maxRetries > 0 {
		backoff = retry.WithMaxRetries(maxRetries, backoff)
	}
	if jitter > 0 {
		backoff = retry.WithJitter(jitter, backoff)
	}
	if cappedDuration > 0 {
		backoff = retry.WithCappedDuration(cappedDuration, backoff)
	}
	if maxDuration > 0 {
		backoff = retry.WithMaxDuration(maxDuration, backoff)
	}
	return backoff
}
