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

	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/apiserver/common"
	"github.com/gridworks/jobserver/pkg/common/errors"
	"github.com/gridworks/jobserver/pkg/common/logger"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/query"
	"github.com/gridworks/jobserver/pkg/storage"
)

// JobSummary is the listing projection of a job record.
type JobSummary struct {
	Name                string          `json:"name"`
	JobName             string          `json:"jobName"`
	UserName            string          `json:"username"`
	ExecutionType       string          `json:"executionType"`
	SubmissionTime      string          `json:"submissionTime"`
	VirtualCluster      string          `json:"virtualCluster"`
	TotalGpuNumber      int             `json:"totalGpuNumber"`
	TotalTaskNumber     int             `json:"totalTaskNumber"`
	TotalTaskRoleNumber int             `json:"totalTaskRoleNumber"`
	JobPriority         *int64          `json:"jobPriority"`
	Retries             int             `json:"retries"`
	CompletionTime      *string         `json:"completionTime"`
	AppExitCode         *int64          `json:"appExitCode"`
	SubState            string          `json:"subState,omitempty"`
	State               schema.JobState `json:"state"`
}

type ListJobResponse struct {
	Jobs []JobSummary `json:"jobs"`
	// TotalCount is only populated when the caller asked for it.
	TotalCount *int64 `json:"totalCount,omitempty"`
}

type GetJobResponse struct {
	JobSummary
	Protocol string `json:"protocol,omitempty"`
}

// ListJob composes the raw listing parameters and runs them against the
// store.
func ListJob(ctx *logger.RequestContext, params query.Params) (ListJobResponse, error) {
	ctx.Logging().Debugf("begin list job.")
	response := ListJobResponse{Jobs: []JobSummary{}}

	spec, err := query.Compose(params)
	if err != nil {
		ctx.Logging().Errorf("compose list spec failed. err:[%s]", err.Error())
		ctx.ErrorCode = errors.CodeOf(err)
		ctx.ErrorMessage = err.Error()
		return response, err
	}

	jobList, totalCount, err := storage.Job.ListJob(spec)
	if err != nil {
		ctx.Logging().Errorf("list job from storage failed. err:[%s]", err.Error())
		ctx.ErrorCode = common.InternalError
		return response, err
	}

	for i := range jobList {
		response.Jobs = append(response.Jobs, toJobSummary(&jobList[i]))
	}
	if spec.Page.WithTotalCount {
		response.TotalCount = &totalCount
	}
	return response, nil
}

// GetJob returns one job with its stored protocol.
func GetJob(ctx *logger.RequestContext, frameworkName string) (GetJobResponse, error) {
	ctx.Logging().Debugf("begin get job[%s].", frameworkName)
	job, err := storage.Job.GetJob(frameworkName)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			ctx.ErrorCode = errors.NoJobError
			err = errors.JobNotFoundError(frameworkName)
			ctx.ErrorMessage = err.Error()
			return GetJobResponse{}, err
		}
		ctx.Logging().Errorf("get job[%s] failed. err:[%s]", frameworkName, err.Error())
		ctx.ErrorCode = common.InternalError
		return GetJobResponse{}, err
	}
	return GetJobResponse{
		JobSummary: toJobSummary(&job),
		Protocol:   job.Protocol,
	}, nil
}

func toJobSummary(job *model.Job) JobSummary {
	summary := JobSummary{}
	if err := copier.Copy(&summary, job); err != nil {
		logger.LoggerForJob(job.Name).Warnf("copy job summary failed: %v", err)
	}
	summary.SubmissionTime = job.SubmissionTime.Format(model.TimeFormat)
	if job.JobPriority.Valid {
		priority := job.JobPriority.Int64
		summary.JobPriority = &priority
	}
	if job.CompletionTime.Valid {
		completion := job.CompletionTime.Time.Format(model.TimeFormat)
		summary.CompletionTime = &completion
	}
	if job.AppExitCode.Valid {
		exitCode := job.AppExitCode.Int64
		summary.AppExitCode = &exitCode
	}
	return summary
}
