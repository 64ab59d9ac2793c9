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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/gridworks/jobserver/pkg/apiserver/common"
	"github.com/gridworks/jobserver/pkg/apiserver/controller/job"
	"github.com/gridworks/jobserver/pkg/apiserver/router/util"
	"github.com/gridworks/jobserver/pkg/common/config"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/storage"
	"github.com/gridworks/jobserver/pkg/storage/driver"
)

const mockUserName = "alice"

func prepareDBAndAPI(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	driver.InitMockDB()
	admission := job.NewAdmissionController(&config.QuotaConfig{
		ClusterWeights: map[string]float64{"vc1": 1},
	}, storage.Job, storage.User)

	chiRouter := chi.NewRouter()
	RegisterRouters(chiRouter, admission)
	server := httptest.NewServer(chiRouter)
	t.Cleanup(server.Close)
	baseUrl := server.URL + util.JobserverRouterPrefix + util.JobserverRouterVersionV2
	return server, baseUrl
}

func doRequest(t *testing.T, method, url, userName string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	assert.Nil(t, err)
	req.Header.Set(common.HeaderKeyUserName, userName)
	response, err := http.DefaultClient.Do(req)
	assert.Nil(t, err)
	return response
}

func TestListJobRoute(t *testing.T) {
	_, baseUrl := prepareDBAndAPI(t)
	assert.Nil(t, storage.Job.CreateJob(&model.Job{
		Name: "alice~train1", JobName: "train1", UserName: mockUserName,
		VirtualCluster: "vc1", State: schema.StateJobRunning,
		SubmissionTime: time.Now(),
	}))

	response := doRequest(t, http.MethodGet, baseUrl+"/jobs?username=alice&withTotalCount=true", mockUserName, nil)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotEmpty(t, response.Header.Get(common.HeaderKeyRequestID))

	var listResponse job.ListJobResponse
	assert.Nil(t, json.NewDecoder(response.Body).Decode(&listResponse))
	assert.Len(t, listResponse.Jobs, 1)
	assert.Equal(t, "alice~train1", listResponse.Jobs[0].Name)
	assert.NotNil(t, listResponse.TotalCount)
	assert.Equal(t, int64(1), *listResponse.TotalCount)
}

func TestListJobRouteBadLimit(t *testing.T) {
	_, baseUrl := prepareDBAndAPI(t)

	response := doRequest(t, http.MethodGet, baseUrl+"/jobs?limit=50001", mockUserName, nil)
	defer response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	var errResponse common.ErrorResponse
	assert.Nil(t, json.NewDecoder(response.Body).Decode(&errResponse))
	assert.Equal(t, "InvalidParametersError", errResponse.ErrorCode)
}

func TestSubmitJobRoute(t *testing.T) {
	_, baseUrl := prepareDBAndAPI(t)
	body := []byte(`
name: train1
defaults:
  virtualCluster: vc1
taskRoles:
  worker:
    instances: 1
    resourcePerInstance:
      gpu: 2
`)

	response := doRequest(t, http.MethodPut, baseUrl+"/jobs/alice~train1", mockUserName, body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusCreated, response.StatusCode)

	var submitResponse job.SubmitJobResponse
	assert.Nil(t, json.NewDecoder(response.Body).Decode(&submitResponse))
	assert.Equal(t, "alice~train1", submitResponse.Name)

	// resubmitting the same name conflicts
	response = doRequest(t, http.MethodPut, baseUrl+"/jobs/alice~train1", mockUserName, body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusConflict, response.StatusCode)
}

func TestExecutionTypeRoute(t *testing.T) {
	_, baseUrl := prepareDBAndAPI(t)
	assert.Nil(t, storage.Job.CreateJob(&model.Job{
		Name: "alice~train1", JobName: "train1", UserName: mockUserName,
		VirtualCluster: "vc1", State: schema.StateJobRunning,
		SubmissionTime: time.Now(),
	}))

	body := []byte(`{"value": "STOP"}`)
	response := doRequest(t, http.MethodPut, baseUrl+"/jobs/alice~train1/executionType", "bob", body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusForbidden, response.StatusCode)

	response = doRequest(t, http.MethodPut, baseUrl+"/jobs/alice~train1/executionType", mockUserName, body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	updated, err := storage.Job.GetJob("alice~train1")
	assert.Nil(t, err)
	assert.Equal(t, schema.ExecutionTypeStop, updated.ExecutionType)
}

func TestTagRoutes(t *testing.T) {
	_, baseUrl := prepareDBAndAPI(t)
	assert.Nil(t, storage.Job.CreateJob(&model.Job{
		Name: "alice~train1", JobName: "train1", UserName: mockUserName,
		VirtualCluster: "vc1", State: schema.StateJobRunning,
		SubmissionTime: time.Now(),
	}))

	body := []byte(`{"value": "prod"}`)
	response := doRequest(t, http.MethodPut, baseUrl+"/jobs/alice~train1/tag", mockUserName, body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	response = doRequest(t, http.MethodDelete, baseUrl+"/jobs/alice~train1/tag", mockUserName, body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	// the tag is gone now
	response = doRequest(t, http.MethodDelete, baseUrl+"/jobs/alice~train1/tag", mockUserName, body)
	defer response.Body.Close()
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}
