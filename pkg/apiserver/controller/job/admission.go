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
	"time"

	"github.com/bluele/gcache"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/viney-shih/go-lock"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/common/config"
	"github.com/gridworks/jobserver/pkg/common/logger"
	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/query"
)

// fallbackClusterWeight weighs usage in virtual clusters absent from the
// weight table.
const fallbackClusterWeight = 1.0

// JobLister is the slice of the job store the admission controller reads.
type JobLister interface {
	ListJob(spec query.Spec) ([]model.Job, int64, error)
}

// UserGetter resolves user profiles for quota lookups.
type UserGetter interface {
	GetUserByName(name string) (model.User, error)
}

// QuotaDecision is the outcome of one admission check. Degraded lists the
// inputs that could not be read; a degraded check still decides, it never
// blocks submission on its own.
type QuotaDecision struct {
	Accepted             bool     `json:"accepted"`
	RequestedWeightedGPU float64  `json:"requestedWeightedGPU"`
	UsedWeightedGPU      float64  `json:"usedWeightedGPU"`
	UserGPUQuota         float64  `json:"userGPUQuota"`
	Degraded             []string `json:"degraded,omitempty"`
}

// AdmissionController decides whether a submission fits the owner's
// weighted-GPU quota.
type AdmissionController struct {
	skuWeights     map[string]float64
	clusterWeights map[string]float64
	defaultQuota   float64
	usageLimit     int
	profileTTL     time.Duration
	profiles       gcache.Cache
	locks          cmap.ConcurrentMap
	store          JobLister
	users          UserGetter
}

func NewAdmissionController(conf *config.QuotaConfig, store JobLister, users UserGetter) *AdmissionController {
	conf.ApplyDefaults()
	return &AdmissionController{
		skuWeights:     conf.SkuWeights,
		clusterWeights: conf.ClusterWeights,
		defaultQuota:   conf.DefaultUserQuota,
		usageLimit:     conf.UsageQueryLimit,
		profileTTL:     time.Duration(conf.ProfileCacheTTLInSeconds) * time.Second,
		profiles:       gcache.New(conf.ProfileCacheSize).LRU().Build(),
		locks:          cmap.New(),
		store:          store,
		users:          users,
	}
}

// Authorize checks the protocol's weighted GPU demand against the user's
// quota. Usage and quota are read concurrently; a failed read degrades to a
// conservative default instead of rejecting the submission.
func (ac *AdmissionController) Authorize(ctx context.Context, userName string, protocol *schema.JobProtocol) QuotaDecision {
	decision := QuotaDecision{
		RequestedWeightedGPU: ac.RequestedWeightedGPU(protocol),
	}

	var used, quota float64
	var usedDegraded, quotaDegraded bool
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if used, err = ac.UsedWeightedGPU(userName); err != nil {
			logger.LoggerForUser(userName).Errorf(
				"read current weighted GPU usage failed, assuming zero: %v", err)
			used, usedDegraded = 0, true
		}
		return nil
	})
	g.Go(func() error {
		var degraded bool
		quota, degraded = ac.userQuota(userName)
		quotaDegraded = degraded
		return nil
	})
	// goroutines report degradation instead of failing
	_ = g.Wait()

	decision.UsedWeightedGPU = used
	decision.UserGPUQuota = quota
	if usedDegraded {
		decision.Degraded = append(decision.Degraded, "usage")
	}
	if quotaDegraded {
		decision.Degraded = append(decision.Degraded, "profile")
	}
	decision.Accepted = decision.RequestedWeightedGPU+decision.UsedWeightedGPU <= decision.UserGPUQuota
	return decision
}

// RequestedWeightedGPU sums the weighted GPU demand of a protocol. Task roles
// with a recognized SKU assignment cost instances x skuWeight x skuNum;
// anything else falls back to the declared per-instance GPU count.
func (ac *AdmissionController) RequestedWeightedGPU(protocol *schema.JobProtocol) float64 {
	assignments := protocol.HivedSkuAssignments()
	total := 0.0
	for roleName, role := range protocol.TaskRoles {
		if assignment, find := assignments[roleName]; find {
			if weight, known := ac.skuWeights[assignment.SkuType]; known {
				total += float64(role.Instances) * weight * float64(assignment.SkuNum)
				continue
			}
			logger.Logger().Warnf("unknown sku type %s for task role %s, falling back to declared gpu",
				assignment.SkuType, roleName)
		}
		total += float64(role.Instances * role.ResourcePerInstance.GPU)
	}
	return total
}

// UsedWeightedGPU sums the cluster-weighted GPU usage of the user's waiting
// and running jobs.
func (ac *AdmissionController) UsedWeightedGPU(userName string) (float64, error) {
	states := make([]string, 0, len(schema.ActiveJobStates))
	for _, state := range schema.ActiveJobStates {
		states = append(states, string(state))
	}
	spec := query.Spec{
		Filter: query.And{
			query.In{Field: query.FieldUserName, Values: []string{userName}},
			query.In{Field: query.FieldState, Values: states},
		},
		Order: query.DefaultOrder(),
		Page:  query.Page{Limit: ac.usageLimit},
	}
	jobs, _, err := ac.store.ListJob(spec)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for i := range jobs {
		weight, find := ac.clusterWeights[jobs[i].VirtualCluster]
		if !find {
			weight = fallbackClusterWeight
		}
		total += float64(jobs[i].TotalGpuNumber) * weight
	}
	return total, nil
}

// userQuota resolves the user's quota through a small TTL cache. A missing
// profile is a normal case and uses the service default; a failed lookup uses
// the default too but reports degradation.
func (ac *AdmissionController) userQuota(userName string) (float64, bool) {
	if cached, err := ac.profiles.Get(userName); err == nil {
		return cached.(float64), false
	}
	quota := ac.defaultQuota
	user, err := ac.users.GetUserByName(userName)
	if err != nil {
		if !goerrors.Is(err, gorm.ErrRecordNotFound) {
			logger.LoggerForUser(userName).Errorf(
				"read user profile failed, using default quota %g: %v", quota, err)
			return quota, true
		}
	} else if user.SkuLimit.Valid {
		quota = user.SkuLimit.Float64
	}
	if err := ac.profiles.SetWithExpire(userName, quota, ac.profileTTL); err != nil {
		logger.LoggerForUser(userName).Warnf("cache user quota failed: %v", err)
	}
	return quota, false
}

// userLock returns the per-user submission lock, creating it on first use.
func (ac *AdmissionController) userLock(userName string) lock.Mutex {
	created := ac.locks.Upsert(userName, nil, func(exist bool, valueInMap, _ interface{}) interface{} {
		if exist {
			return valueInMap
		}
		return lock.NewCASMutex()
	})
	return created.(lock.Mutex)
}
