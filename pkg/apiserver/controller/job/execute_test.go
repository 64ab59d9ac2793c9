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

package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridworks/jobserver/pkg/common/errors"
	"github.com/gridworks/jobserver/pkg/common/logger"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/query"
	"github.com/gridworks/jobserver/pkg/storage"
	"github.com/gridworks/jobserver/pkg/storage/driver"
)

func prepareOwnedJob(t *testing.T) {
	t.Helper()
	driver.InitMockDB()
	assert.Nil(t, storage.Job.CreateJob(&model.Job{
		Name: "alice~train1", JobName: "train1", UserName: "alice",
		ExecutionType: schema.ExecutionTypeStart,
		State:         schema.StateJobRunning, SubmissionTime: time.Now(),
	}))
}

func TestUpdateExecutionType(t *testing.T) {
	prepareOwnedJob(t)

	testCases := []struct {
		name          string
		ctx           *logger.RequestContext
		frameworkName string
		executionType string
		errCode       string
	}{
		{
			name:          "owner can stop the job",
			ctx:           &logger.RequestContext{UserName: "alice"},
			frameworkName: "alice~train1",
			executionType: schema.ExecutionTypeStop,
		},
		{
			name:          "admin can stop the job",
			ctx:           &logger.RequestContext{UserName: "root", IsAdmin: true},
			frameworkName: "alice~train1",
			executionType: schema.ExecutionTypeStop,
		},
		{
			name:          "other users are rejected",
			ctx:           &logger.RequestContext{UserName: "bob"},
			frameworkName: "alice~train1",
			executionType: schema.ExecutionTypeStop,
			errCode:       errors.ForbiddenUserError,
		},
		{
			name:          "unknown execution type is rejected",
			ctx:           &logger.RequestContext{UserName: "alice"},
			frameworkName: "alice~train1",
			executionType: "PAUSE",
			errCode:       errors.InvalidParameters,
		},
		{
			name:          "malformed job name is rejected",
			ctx:           &logger.RequestContext{UserName: "alice"},
			frameworkName: "train1",
			executionType: schema.ExecutionTypeStop,
			errCode:       errors.InvalidParameters,
		},
		{
			name:          "missing job is reported",
			ctx:           &logger.RequestContext{UserName: "alice"},
			frameworkName: "alice~nope",
			executionType: schema.ExecutionTypeStop,
			errCode:       errors.NoJobError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := UpdateExecutionType(tc.ctx, tc.frameworkName, tc.executionType)
			if tc.errCode == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Equal(t, tc.errCode, tc.ctx.ErrorCode)
			}
		})
	}
}

func TestJobTagOperations(t *testing.T) {
	prepareOwnedJob(t)
	owner := &logger.RequestContext{UserName: "alice"}

	assert.Nil(t, AddJobTag(owner, "alice~train1", "prod"))

	// tags are visible through listing
	spec := query.Spec{
		TagsContain: []string{"prod"},
		Order:       query.DefaultOrder(),
		Page:        query.Page{Limit: query.DefaultLimit},
	}
	jobs, _, err := storage.Job.ListJob(spec)
	assert.Nil(t, err)
	assert.Len(t, jobs, 1)

	// only owner or admin may tag
	stranger := &logger.RequestContext{UserName: "bob"}
	err = AddJobTag(stranger, "alice~train1", "debug")
	assert.NotNil(t, err)
	assert.Equal(t, errors.ForbiddenUserError, stranger.ErrorCode)

	assert.Nil(t, DeleteJobTag(owner, "alice~train1", "prod"))

	// deleting an absent tag fails
	err = DeleteJobTag(owner, "alice~train1", "prod")
	assert.NotNil(t, err)
	assert.Equal(t, errors.NoJobError, owner.ErrorCode)
}
