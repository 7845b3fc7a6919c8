// Copyright 2024 The Plumaa ID Authors.
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

package ui

import (
	"context"
	"fmt"
	"sync"
)

// mu serializes writes from concurrent verification pipelines.
var mu sync.Mutex

func printf(ctx context.Context, prefix, msg string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(getEnv(ctx).Stderr, prefix+msg+"\n", a...)
}

// Infof logs an informational message.
func Infof(ctx context.Context, msg string, a ...any) {
	printf(ctx, "", msg, a...)
}

// Warnf logs a message the user should act on.
func Warnf(ctx context.Context, msg string, a ...any) {
	printf(ctx, "WARNING: ", msg, a...)
}

// Debugf logs only when the Env is verbose.
func Debugf(ctx context.Context, msg string, a ...any) {
	if getEnv(ctx).Verbose {
		printf(ctx, "DEBUG: ", msg, a...)
	}
}
