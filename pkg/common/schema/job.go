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

package schema

import (
	"fmt"
	"strings"
)

type JobState string

const (
	StateJobWaiting   JobState = "WAITING"
	StateJobRunning   JobState = "RUNNING"
	StateJobSucceeded JobState = "SUCCEEDED"
	StateJobFailed    JobState = "FAILED"
	StateJobStopped   JobState = "STOPPED"

	ExecutionTypeStart = "START"
	ExecutionTypeStop  = "STOP"

	// FrameworkNameSeparator joins user name and job name into the job identity
	FrameworkNameSeparator = "~"
)

// ActiveJobStates are the states whose GPU demand counts against a user's quota.
var ActiveJobStates = []JobState{StateJobWaiting, StateJobRunning}

func IsActiveJobState(state JobState) bool {
	return state == StateJobWaiting || state == StateJobRunning
}

func IsFinishedJobState(state JobState) bool {
	switch state {
	case StateJobSucceeded, StateJobFailed, StateJobStopped:
		return true
	}
	return false
}

// FrameworkName builds the job identity <userName>~<jobName>.
func FrameworkName(userName, jobName string) string {
	return userName + FrameworkNameSeparator + jobName
}

// SplitFrameworkName returns the user name and job name parts of a job identity.
func SplitFrameworkName(frameworkName string) (string, string, error) {
	parts := strings.SplitN(frameworkName, FrameworkNameSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid framework name %s", frameworkName)
	}
	return parts[0], parts[1], nil
}
