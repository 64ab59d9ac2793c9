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
	goerrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/apiserver/common"
	"github.com/gridworks/jobserver/pkg/common/errors"
	"github.com/gridworks/jobserver/pkg/common/logger"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/storage"
)

// authorizeJobOwner loads the job and checks the caller may mutate it. Only
// the owner and admins pass.
func authorizeJobOwner(ctx *logger.RequestContext, frameworkName string) (model.Job, error) {
	if _, _, err := schema.SplitFrameworkName(frameworkName); err != nil {
		ctx.ErrorCode = errors.InvalidParameters
		ctx.ErrorMessage = err.Error()
		return model.Job{}, &errors.JSError{Code: errors.InvalidParameters, Message: ctx.ErrorMessage}
	}
	job, err := storage.Job.GetJob(frameworkName)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			ctx.ErrorCode = errors.NoJobError
			err = errors.JobNotFoundError(frameworkName)
			ctx.ErrorMessage = err.Error()
			return model.Job{}, err
		}
		ctx.Logging().Errorf("get job[%s] failed. err:[%s]", frameworkName, err.Error())
		ctx.ErrorCode = common.InternalError
		return model.Job{}, err
	}
	if job.UserName != ctx.UserName && !ctx.IsAdmin {
		err = errors.ForbiddenJobError(ctx.UserName, frameworkName)
		ctx.ErrorCode = errors.ForbiddenUserError
		ctx.ErrorMessage = err.Error()
		return model.Job{}, err
	}
	return job, nil
}

// UpdateExecutionType records a start or stop request on the job.
func UpdateExecutionType(ctx *logger.RequestContext, frameworkName, executionType string) error {
	ctx.Logging().Debugf("begin update executionType of job[%s] to [%s].", frameworkName, executionType)
	if executionType != schema.ExecutionTypeStart && executionType != schema.ExecutionTypeStop {
		ctx.ErrorCode = errors.InvalidParameters
		ctx.ErrorMessage = fmt.Sprintf("executionType must be %s or %s, got %s",
			schema.ExecutionTypeStart, schema.ExecutionTypeStop, executionType)
		return &errors.JSError{Code: errors.InvalidParameters, Message: ctx.ErrorMessage}
	}
	if _, err := authorizeJobOwner(ctx, frameworkName); err != nil {
		return err
	}
	if err := storage.Job.UpdateExecutionType(frameworkName, executionType); err != nil {
		ctx.Logging().Errorf("update executionType of job[%s] failed. err:[%s]", frameworkName, err.Error())
		ctx.ErrorCode = common.InternalError
		return err
	}
	return nil
}

// AddJobTag attaches a tag to the job; it is idempotent.
func AddJobTag(ctx *logger.RequestContext, frameworkName, tag string) error {
	ctx.Logging().Debugf("begin add tag[%s] to job[%s].", tag, frameworkName)
	if tag == "" {
		ctx.ErrorCode = errors.InvalidParameters
		ctx.ErrorMessage = "empty tag"
		return &errors.JSError{Code: errors.InvalidParameters, Message: ctx.ErrorMessage}
	}
	if _, err := authorizeJobOwner(ctx, frameworkName); err != nil {
		return err
	}
	if err := storage.Job.AddTag(frameworkName, tag); err != nil {
		ctx.Logging().Errorf("add tag[%s] to job[%s] failed. err:[%s]", tag, frameworkName, err.Error())
		ctx.ErrorCode = common.InternalError
		return err
	}
	return nil
}

// DeleteJobTag removes a tag from the job; deleting an absent tag fails.
func DeleteJobTag(ctx *logger.RequestContext, frameworkName, tag string) error {
	ctx.Logging().Debugf("begin delete tag[%s] of job[%s].", tag, frameworkName)
	if tag == "" {
		ctx.ErrorCode = errors.InvalidParameters
		ctx.ErrorMessage = "empty tag"
		return &errors.JSError{Code: errors.InvalidParameters, Message: ctx.ErrorMessage}
	}
	if _, err := authorizeJobOwner(ctx, frameworkName); err != nil {
		return err
	}
	deleted, err := storage.Job.DeleteTag(frameworkName, tag)
	if err != nil {
		ctx.Logging().Errorf("delete tag[%s] of job[%s] failed. err:[%s]", tag, frameworkName, err.Error())
		ctx.ErrorCode = common.InternalError
		return err
	}
	if !deleted {
		err = errors.TagNotFoundError(frameworkName, tag)
		ctx.ErrorCode = errors.NoJobError
		ctx.ErrorMessage = err.Error()
		return err
	}
	return nil
}
