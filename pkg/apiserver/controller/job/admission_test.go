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
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/common/config"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/query"
)

type fakeJobLister struct {
	jobs []model.Job
	err  error
}

func (f *fakeJobLister) ListJob(spec query.Spec) ([]model.Job, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.jobs, int64(len(f.jobs)), nil
}

type fakeUserGetter struct {
	user model.User
	err  error
}

func (f *fakeUserGetter) GetUserByName(name string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	return f.user, nil
}

func testQuotaConf() *config.QuotaConfig {
	return &config.QuotaConfig{
		SkuWeights: map[string]float64{
			"gpu-machine-a100-1t": 1,
			"gpu-machine-3090":    0.25,
		},
		ClusterWeights: map[string]float64{
			"default": 0.25,
			"vc1":     1,
		},
	}
}

func newTestController(store JobLister, users UserGetter) *AdmissionController {
	return NewAdmissionController(testQuotaConf(), store, users)
}

func TestRequestedWeightedGPU(t *testing.T) {
	ac := newTestController(&fakeJobLister{}, &fakeUserGetter{err: gorm.ErrRecordNotFound})

	testCases := []struct {
		name     string
		protocol *schema.JobProtocol
		expected float64
	}{
		{
			name: "declared gpu counts without sku assignments",
			protocol: &schema.JobProtocol{
				Name: "train",
				TaskRoles: map[string]schema.TaskRole{
					"worker": {Instances: 2, ResourcePerInstance: schema.ResourcePerInstance{GPU: 1}},
					"ps":     {Instances: 3, ResourcePerInstance: schema.ResourcePerInstance{GPU: 1}},
				},
			},
			expected: 5,
		},
		{
			name: "sku assignment overrides declared gpu",
			protocol: &schema.JobProtocol{
				Name: "train",
				TaskRoles: map[string]schema.TaskRole{
					"worker": {Instances: 2, ResourcePerInstance: schema.ResourcePerInstance{GPU: 1}},
				},
				Extras: map[string]interface{}{
					"hivedScheduler": map[string]interface{}{
						"taskRoles": map[string]interface{}{
							"worker": map[string]interface{}{"skuType": "gpu-machine-3090", "skuNum": 1},
						},
					},
				},
			},
			expected: 0.5,
		},
		{
			name: "unknown sku type falls back to declared gpu",
			protocol: &schema.JobProtocol{
				Name: "train",
				TaskRoles: map[string]schema.TaskRole{
					"worker": {Instances: 2, ResourcePerInstance: schema.ResourcePerInstance{GPU: 2}},
				},
				Extras: map[string]interface{}{
					"hivedScheduler": map[string]interface{}{
						"taskRoles": map[string]interface{}{
							"worker": map[string]interface{}{"skuType": "gpu-machine-v100", "skuNum": 4},
						},
					},
				},
			},
			expected: 4,
		},
		{
			name: "malformed extras fall back to declared gpu",
			protocol: &schema.JobProtocol{
				Name: "train",
				TaskRoles: map[string]schema.TaskRole{
					"worker": {Instances: 1, ResourcePerInstance: schema.ResourcePerInstance{GPU: 3}},
				},
				Extras: map[string]interface{}{
					"hivedScheduler": "not-a-mapping",
				},
			},
			expected: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ac.RequestedWeightedGPU(tc.protocol))
		})
	}
}

func TestUsedWeightedGPU(t *testing.T) {
	lister := &fakeJobLister{jobs: []model.Job{
		{Name: "a~j1", VirtualCluster: "vc1", TotalGpuNumber: 4, State: schema.StateJobRunning},
		{Name: "a~j2", VirtualCluster: "default", TotalGpuNumber: 8, State: schema.StateJobWaiting},
		{Name: "a~j3", VirtualCluster: "vc-unknown", TotalGpuNumber: 1, State: schema.StateJobRunning},
	}}
	ac := newTestController(lister, &fakeUserGetter{err: gorm.ErrRecordNotFound})

	used, err := ac.UsedWeightedGPU("a")
	assert.Nil(t, err)
	// 4x1 + 8x0.25 + 1x1 (unknown cluster weighs one)
	assert.Equal(t, 7.0, used)
}

func singleRoleProtocol(gpu int) *schema.JobProtocol {
	return &schema.JobProtocol{
		Name: "train",
		TaskRoles: map[string]schema.TaskRole{
			"worker": {Instances: 1, ResourcePerInstance: schema.ResourcePerInstance{GPU: gpu}},
		},
	}
}

func TestAuthorize(t *testing.T) {
	usedSixJobs := []model.Job{
		{Name: "a~j1", VirtualCluster: "vc1", TotalGpuNumber: 6, State: schema.StateJobRunning},
	}

	testCases := []struct {
		name     string
		store    JobLister
		users    UserGetter
		protocol *schema.JobProtocol
		accepted bool
		used     float64
		quota    float64
		degraded []string
	}{
		{
			name:     "over quota is rejected",
			store:    &fakeJobLister{jobs: usedSixJobs},
			users:    &fakeUserGetter{err: gorm.ErrRecordNotFound},
			protocol: singleRoleProtocol(3),
			accepted: false,
			used:     6,
			quota:    8,
		},
		{
			name:     "exactly at quota is accepted",
			store:    &fakeJobLister{jobs: usedSixJobs},
			users:    &fakeUserGetter{err: gorm.ErrRecordNotFound},
			protocol: singleRoleProtocol(2),
			accepted: true,
			used:     6,
			quota:    8,
		},
		{
			name:  "profile limit overrides default quota",
			store: &fakeJobLister{jobs: usedSixJobs},
			users: &fakeUserGetter{user: model.User{
				UserInfo: model.UserInfo{Name: "a"},
				SkuLimit: sql.NullFloat64{Float64: 10, Valid: true},
			}},
			protocol: singleRoleProtocol(3),
			accepted: true,
			used:     6,
			quota:    10,
		},
		{
			name:     "usage read failure degrades to zero",
			store:    &fakeJobLister{err: fmt.Errorf("db gone")},
			users:    &fakeUserGetter{err: gorm.ErrRecordNotFound},
			protocol: singleRoleProtocol(3),
			accepted: true,
			used:     0,
			quota:    8,
			degraded: []string{"usage"},
		},
		{
			name:     "profile read failure degrades to default quota",
			store:    &fakeJobLister{jobs: usedSixJobs},
			users:    &fakeUserGetter{err: fmt.Errorf("db gone")},
			protocol: singleRoleProtocol(2),
			accepted: true,
			used:     6,
			quota:    8,
			degraded: []string{"profile"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ac := newTestController(tc.store, tc.users)
			decision := ac.Authorize(context.Background(), "a", tc.protocol)
			assert.Equal(t, tc.accepted, decision.Accepted)
			assert.Equal(t, tc.used, decision.UsedWeightedGPU)
			assert.Equal(t, tc.quota, decision.UserGPUQuota)
			assert.Equal(t, tc.degraded, decision.Degraded)
		})
	}
}

func TestUserQuotaCached(t *testing.T) {
	users := &fakeUserGetter{user: model.User{
		UserInfo: model.UserInfo{Name: "a"},
		SkuLimit: sql.NullFloat64{Float64: 12, Valid: true},
	}}
	ac := newTestController(&fakeJobLister{}, users)

	quota, degraded := ac.userQuota("a")
	assert.Equal(t, 12.0, quota)
	assert.False(t, degraded)

	// second read hits the cache even when the store starts failing
	users.err = fmt.Errorf("db gone")
	quota, degraded = ac.userQuota("a")
	assert.Equal(t, 12.0, quota)
	assert.False(t, degraded)
}
