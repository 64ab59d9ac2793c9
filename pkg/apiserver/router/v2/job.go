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

package v2

import (
	"io/ioutil"
	"net/http"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/gridworks/jobserver/pkg/apiserver/common"
	"github.com/gridworks/jobserver/pkg/apiserver/controller/job"
	"github.com/gridworks/jobserver/pkg/apiserver/router/util"
	"github.com/gridworks/jobserver/pkg/query"
)

type JobRouter struct {
	admission *job.AdmissionController
}

func (jr *JobRouter) Name() string {
	return "JobRouter"
}

func (jr *JobRouter) AddRouter(r chi.Router) {
	log.Info("add job router")
	r.Get("/jobs", jr.listJob)
	r.Get("/jobs/{frameworkName}", jr.getJob)
	r.Put("/jobs/{frameworkName}", jr.submitJob)
	r.Put("/jobs/{frameworkName}/executionType", jr.updateExecutionType)
	r.Put("/jobs/{frameworkName}/tag", jr.addTag)
	r.Delete("/jobs/{frameworkName}/tag", jr.deleteTag)
}

func (jr *JobRouter) listJob(w http.ResponseWriter, r *http.Request) {
	ctx := common.GetRequestContext(r)
	values := r.URL.Query()
	params := query.Params{
		Keyword:        values.Get(util.QueryKeyKeyword),
		UserName:       values.Get(util.QueryKeyUserName),
		VirtualCluster: values.Get(util.QueryKeyVirtualCluster),
		State:          values.Get(util.QueryKeyState),
		JobPriority:    values.Get(util.QueryKeyJobPriority),
		TagsContain:    values.Get(util.QueryKeyTagsContain),
		TagsNotContain: values.Get(util.QueryKeyTagsNotContain),
		Order:          values.Get(util.QueryKeyOrder),
		Offset:         values.Get(util.QueryKeyOffset),
		Limit:          values.Get(util.QueryKeyLimit),
		WithTotalCount: values.Get(util.QueryKeyWithTotalCount),
	}
	response, err := job.ListJob(&ctx, params)
	if err != nil {
		common.RenderErrWithMessage(w, ctx.RequestID, ctx.ErrorCode, ctx.ErrorMessage)
		return
	}
	common.Render(w, http.StatusOK, response)
}

func (jr *JobRouter) getJob(w http.ResponseWriter, r *http.Request) {
	ctx := common.GetRequestContext(r)
	frameworkName := chi.URLParam(r, util.ParamKeyFrameworkName)
	response, err := job.GetJob(&ctx, frameworkName)
	if err != nil {
		common.RenderErrWithMessage(w, ctx.RequestID, ctx.ErrorCode, ctx.ErrorMessage)
		return
	}
	common.Render(w, http.StatusOK, response)
}

func (jr *JobRouter) submitJob(w http.ResponseWriter, r *http.Request) {
	ctx := common.GetRequestContext(r)
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		log.Errorf("SubmitJob read body failed. err:%s", err.Error())
		common.RenderErr(w, ctx.RequestID, common.InvalidHTTPRequest)
		return
	}
	frameworkName := chi.URLParam(r, util.ParamKeyFrameworkName)
	response, err := jr.admission.SubmitJob(r.Context(), &ctx, frameworkName, body)
	if err != nil {
		common.RenderErrWithMessage(w, ctx.RequestID, ctx.ErrorCode, ctx.ErrorMessage)
		return
	}
	common.Render(w, http.StatusCreated, response)
}

type executionTypeRequest struct {
	Value string `json:"value"`
}

func (jr *JobRouter) updateExecutionType(w http.ResponseWriter, r *http.Request) {
	ctx := common.GetRequestContext(r)
	frameworkName := chi.URLParam(r, util.ParamKeyFrameworkName)
	var request executionTypeRequest
	if err := common.BindJSON(r, &request); err != nil {
		log.Errorf("UpdateExecutionType bindjson failed. err:%s", err.Error())
		common.RenderErr(w, ctx.RequestID, common.InvalidHTTPRequest)
		return
	}
	if err := job.UpdateExecutionType(&ctx, frameworkName, request.Value); err != nil {
		common.RenderErrWithMessage(w, ctx.RequestID, ctx.ErrorCode, ctx.ErrorMessage)
		return
	}
	common.RenderStatus(w, http.StatusOK)
}

type tagRequest struct {
	Value string `json:"value"`
}

func (jr *JobRouter) addTag(w http.ResponseWriter, r *http.Request) {
	ctx := common.GetRequestContext(r)
	frameworkName := chi.URLParam(r, util.ParamKeyFrameworkName)
	var request tagRequest
	if err := common.BindJSON(r, &request); err != nil {
		log.Errorf("AddTag bindjson failed. err:%s", err.Error())
		common.RenderErr(w, ctx.RequestID, common.InvalidHTTPRequest)
		return
	}
	if err := job.AddJobTag(&ctx, frameworkName, request.Value); err != nil {
		common.RenderErrWithMessage(w, ctx.RequestID, ctx.ErrorCode, ctx.ErrorMessage)
		return
	}
	common.RenderStatus(w, http.StatusOK)
}

func (jr *JobRouter) deleteTag(w http.ResponseWriter, r *http.Request) {
	ctx := common.GetRequestContext(r)
	frameworkName := chi.URLParam(r, util.ParamKeyFrameworkName)
	var request tagRequest
	if err := common.BindJSON(r, &request); err != nil {
		log.Errorf("DeleteTag bindjson failed. err:%s", err.Error())
		common.RenderErr(w, ctx.RequestID, common.InvalidHTTPRequest)
		return
	}
	if err := job.DeleteJobTag(&ctx, frameworkName, request.Value); err != nil {
		common.RenderErrWithMessage(w, ctx.RequestID, ctx.ErrorCode, ctx.ErrorMessage)
		return
	}
	common.RenderStatus(w, http.StatusOK)
}
