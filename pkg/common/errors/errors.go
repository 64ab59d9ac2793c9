/*
Copyright (c) 2023 GridWorks Authors. All Rights Reserve.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errors

import (
	goerrors "errors"
	"fmt"
)

const (
	InvalidParameters = "InvalidParametersError"
	// NoVirtualClusterError is the historical code reported when a user's GPU
	// quota would be exceeded.
	NoVirtualClusterError = "NoVirtualClusterError"
	ConflictJobError      = "ConflictJobError"
	NoJobError            = "NoJobError"
	ForbiddenUserError    = "ForbiddenUserError"
)

type JSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *JSError) Error() string {
	return fmt.Sprintf("code %s, reason %s", e.Code, e.Message)
}

// CodeOf returns the error code carried by err, or empty when err is not a
// service error.
func CodeOf(err error) string {
	var jsErr *JSError
	if goerrors.As(err, &jsErr) {
		return jsErr.Code
	}
	return ""
}

func InvalidLimitError(limit, maxLimit int) error {
	return &JSError{
		Code:    InvalidParameters,
		Message: fmt.Sprintf("Limit %d exceeds max number %d.", limit, maxLimit),
	}
}

func QuotaExceededError(userName string, quota, used, requested float64) error {
	return &JSError{
		Code: NoVirtualClusterError,
		Message: fmt.Sprintf("User %s has a quota of %g weighted GPUs, %g are in use, requesting %g more exceeds it.",
			userName, quota, used, requested),
	}
}

func ConflictJobNameError(frameworkName string) error {
	return &JSError{
		Code:    ConflictJobError,
		Message: fmt.Sprintf("Job %s already exists.", frameworkName),
	}
}

func JobNotFoundError(frameworkName string) error {
	return &JSError{
		Code:    NoJobError,
		Message: fmt.Sprintf("Job %s is not found.", frameworkName),
	}
}

func TagNotFoundError(frameworkName, tag string) error {
	return &JSError{
		Code:    NoJobError,
		Message: fmt.Sprintf("Tag %s is not found on job %s.", tag, frameworkName),
	}
}

func ForbiddenJobError(userName, frameworkName string) error {
	return &JSError{
		Code:    ForbiddenUserError,
		Message: fmt.Sprintf("User %s is not allowed to operate job %s.", userName, frameworkName),
	}
}
