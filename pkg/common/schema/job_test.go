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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStateClassification(t *testing.T) {
	allStates := []JobState{
		StateJobWaiting, StateJobRunning,
		StateJobSucceeded, StateJobFailed, StateJobStopped,
	}
	// every state is exactly one of active or finished
	for _, state := range allStates {
		assert.NotEqual(t, IsActiveJobState(state), IsFinishedJobState(state), string(state))
	}
	for _, state := range ActiveJobStates {
		assert.True(t, IsActiveJobState(state), string(state))
	}
	assert.False(t, IsActiveJobState("UNKNOWN"))
	assert.False(t, IsFinishedJobState("UNKNOWN"))
}

func TestFrameworkName(t *testing.T) {
	name := FrameworkName("alice", "train1")
	assert.Equal(t, "alice~train1", name)

	userName, jobName, err := SplitFrameworkName(name)
	assert.Nil(t, err)
	assert.Equal(t, "alice", userName)
	assert.Equal(t, "train1", jobName)

	// job names may carry the separator themselves
	userName, jobName, err = SplitFrameworkName("alice~train~v2")
	assert.Nil(t, err)
	assert.Equal(t, "alice", userName)
	assert.Equal(t, "train~v2", jobName)

	for _, invalid := range []string{"", "train1", "~train1", "alice~"} {
		_, _, err = SplitFrameworkName(invalid)
		assert.NotNil(t, err, invalid)
	}
}
