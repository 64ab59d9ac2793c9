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

package common

import (
	"net/http"

	"github.com/gridworks/jobserver/pkg/common/errors"
)

const (
	InternalError      = "InternalError"      // all undefined errors
	InvalidHTTPRequest = "InvalidHTTPRequest" // malformed HTTP body
	MalformedProtocol  = "MalformedProtocol"  // job protocol fails to parse or validate
	PathNotFound       = "PathNotFound"
	MethodNotAllowed   = "MethodNotAllowed"
)

var errorHTTPStatus = map[string]int{
	InternalError:      http.StatusInternalServerError,
	InvalidHTTPRequest: http.StatusBadRequest,
	MalformedProtocol:  http.StatusBadRequest,
	PathNotFound:       http.StatusNotFound,
	MethodNotAllowed:   http.StatusMethodNotAllowed,

	errors.InvalidParameters:     http.StatusBadRequest,
	errors.NoVirtualClusterError: http.StatusBadRequest,
	errors.ConflictJobError:      http.StatusConflict,
	errors.NoJobError:            http.StatusNotFound,
	errors.ForbiddenUserError:    http.StatusForbidden,
}

var errorMessage = map[string]string{
	InternalError:      "We encountered an internal error. Please try again.",
	InvalidHTTPRequest: "One or more errors in HTTP request body",
	MalformedProtocol:  "The job protocol could not be parsed or validated.",
	PathNotFound:       "The requested resource path was not found.",
	MethodNotAllowed:   "The requested method is not allowed on this resource.",

	errors.InvalidParameters:     "One or more listing parameters are invalid.",
	errors.NoVirtualClusterError: "The job exceeds the user's GPU quota.",
	errors.ConflictJobError:      "A job with the same name already exists.",
	errors.NoJobError:            "The requested job was not found.",
	errors.ForbiddenUserError:    "The user is not allowed to operate this job.",
}

type ErrorResponse struct {
	RequestID    string `json:"requestID"`
	ErrorCode    string `json:"code"`
	ErrorMessage string `json:"message"`
}

func GetMessageByCode(code string) string {
	return errorMessage[code]
}

func GetHttpStatusByCode(code string) int {
	return errorHTTPStatus[code]
}
