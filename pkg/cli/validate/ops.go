/* Copyright 2025 Replog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package validate provides client-side validation for user input before
// it is queued as an operation. The server remains the authority; these
// checks only catch input that could never be accepted.
package validate

import (
	"github.com/pkg/errors"
)

// ErrIDNotPositive is an error for a row id that is zero or negative
var ErrIDNotPositive = errors.New("The id must be a positive number")

// ErrRepsNotPositive is an error for a rep count that is zero or negative
var ErrRepsNotPositive = errors.New("The number of reps must be a positive number")

// ErrWeightNegative is an error for a negative weight
var ErrWeightNegative = errors.New("The weight cannot be negative")

// ErrTargetWeightNotPositive is an error for a target weight that is zero or negative
var ErrTargetWeightNotPositive = errors.New("The target weight must be a positive number")

// ID validates a server-side row id given as a command argument
func ID(id int) error {
	if id <= 0 {
		return ErrIDNotPositive
	}

	return nil
}

// Reps validates a rep count for a logged set
func Reps(reps int) error {
	if reps <= 0 {
		return ErrRepsNotPositive
	}

	return nil
}

// Weight validates a set or bodyweight value. Zero is allowed so that
// unweighted movements can be logged.
func Weight(weight float64) error {
	if weight < 0 {
		return ErrWeightNegative
	}

	return nil
}

// TargetWeight validates a routine exercise target weight
func TargetWeight(weight float64) error {
	if weight <= 0 {
		return ErrTargetWeightNotPositive
	}

	return nil
}
