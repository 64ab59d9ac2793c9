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
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/apiserver/common"
	"github.com/gridworks/jobserver/pkg/common/errors"
	"github.com/gridworks/jobserver/pkg/common/logger"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/metrics"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/storage"
)

type SubmitJobResponse struct {
	Name     string        `json:"name"`
	Decision QuotaDecision `json:"quotaDecision"`
}

// SubmitJob admits and persists one job submission. The quota check and the
// duplicate guard run under a per-user lock so two concurrent submissions by
// the same user cannot both pass against the same usage snapshot.
func (ac *AdmissionController) SubmitJob(ctx context.Context, rctx *logger.RequestContext, requestedName string, body []byte) (SubmitJobResponse, error) {
	rctx.Logging().Debugf("begin submit job.")
	response := SubmitJobResponse{}

	protocol, err := schema.ParseJobProtocol(body)
	if err != nil {
		rctx.Logging().Errorf("parse job protocol failed. err:[%s]", err.Error())
		rctx.ErrorCode = common.MalformedProtocol
		rctx.ErrorMessage = err.Error()
		return response, err
	}
	if err := protocol.Validate(); err != nil {
		rctx.Logging().Errorf("validate job protocol failed. err:[%s]", err.Error())
		rctx.ErrorCode = common.MalformedProtocol
		rctx.ErrorMessage = err.Error()
		return response, err
	}

	userName := rctx.UserName
	frameworkName := schema.FrameworkName(userName, protocol.Name)
	if requestedName != "" && requestedName != frameworkName {
		rctx.ErrorCode = errors.InvalidParameters
		rctx.ErrorMessage = fmt.Sprintf("Job name %s does not match protocol job name %s.",
			requestedName, frameworkName)
		return response, &errors.JSError{Code: errors.InvalidParameters, Message: rctx.ErrorMessage}
	}

	mu := ac.userLock(userName)
	if !mu.TryLockWithContext(ctx) {
		rctx.ErrorCode = common.InternalError
		return response, fmt.Errorf("acquire submission lock for user %s failed: %v", userName, ctx.Err())
	}
	defer mu.Unlock()

	decision := ac.Authorize(ctx, userName, protocol)
	response.Decision = decision
	metrics.ObserveAdmissionDecision(userName, decision.Accepted)
	if !decision.Accepted {
		err := errors.QuotaExceededError(userName, decision.UserGPUQuota,
			decision.UsedWeightedGPU, decision.RequestedWeightedGPU)
		rctx.ErrorCode = errors.NoVirtualClusterError
		rctx.ErrorMessage = err.Error()
		return response, err
	}

	_, err = storage.Job.GetJob(frameworkName)
	if err == nil {
		err = errors.ConflictJobNameError(frameworkName)
		rctx.ErrorCode = errors.ConflictJobError
		rctx.ErrorMessage = err.Error()
		return response, err
	}
	if !goerrors.Is(err, gorm.ErrRecordNotFound) {
		rctx.Logging().Errorf("check duplicate job[%s] failed. err:[%s]", frameworkName, err.Error())
		rctx.ErrorCode = common.InternalError
		return response, err
	}

	job := model.Job{
		Name:                frameworkName,
		JobName:             protocol.Name,
		UserName:            userName,
		ExecutionType:       schema.ExecutionTypeStart,
		SubmissionTime:      time.Now(),
		VirtualCluster:      protocol.VirtualCluster(),
		TotalGpuNumber:      protocol.TotalGPUNumber(),
		TotalTaskNumber:     protocol.TotalTaskNumber(),
		TotalTaskRoleNumber: protocol.TotalTaskRoleNumber(),
		State:               schema.StateJobWaiting,
		Protocol:            string(body),
	}
	if err := storage.Job.CreateJob(&job); err != nil {
		rctx.Logging().Errorf("create job[%s] failed. err:[%s]", frameworkName, err.Error())
		rctx.ErrorCode = common.InternalError
		return response, err
	}

	response.Name = frameworkName
	rctx.Logging().Infof("job[%s] submitted, requested %g weighted GPU on top of %g used, quota %g",
		frameworkName, decision.RequestedWeightedGPU, decision.UsedWeightedGPU, decision.UserGPUQuota)
	return response, nil
}
