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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPromptDeclined is returned when the user answers no.
type ErrPromptDeclined struct{}

func (e *ErrPromptDeclined) Error() string {
	return "user declined"
}

// ErrInvalidInput is returned for an answer that is neither yes nor no.
type ErrInvalidInput struct {
	Got     string
	Allowed string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input %#v (allowed values %v)", e.Got, e.Allowed)
}

// ConfirmContinue asks the user whether to go on. Anything but an explicit
// yes declines.
func ConfirmContinue(ctx context.Context) error {
	e := getEnv(ctx)
	fmt.Fprint(e.Stderr, "Are you sure you would like to continue? [y/N] ")
	r := bufio.NewReader(e.Stdin)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y":
		return nil
	case "n", "":
		return &ErrPromptDeclined{}
	default:
		return &ErrInvalidInput{Got: strings.TrimSpace(line), Allowed: "y, n"}
	}
}
