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

package metrics

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const defaultRefreshWorkers = 4

// UsageReader computes one user's current weighted GPU usage.
type UsageReader interface {
	UsedWeightedGPU(userName string) (float64, error)
}

// ActiveUserLister lists users owning waiting or running jobs.
type ActiveUserLister interface {
	ListActiveUserNames() ([]string, error)
}

// UsageRefresher periodically recomputes the per-user weighted usage gauge.
type UsageRefresher struct {
	reader UsageReader
	lister ActiveUserLister
	cron   *cron.Cron
	pool   *ants.Pool
}

func NewUsageRefresher(reader UsageReader, lister ActiveUserLister, workers int) (*UsageRefresher, error) {
	if workers <= 0 {
		workers = defaultRefreshWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &UsageRefresher{
		reader: reader,
		lister: lister,
		cron:   cron.New(),
		pool:   pool,
	}, nil
}

// Start schedules the refresh every periodSeconds seconds.
func (r *UsageRefresher) Start(periodSeconds int) error {
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %ds", periodSeconds), r.refresh); err != nil {
		return err
	}
	r.cron.Start()
	log.Infof("usage refresher started, period %ds", periodSeconds)
	return nil
}

func (r *UsageRefresher) Stop() {
	r.cron.Stop()
	r.pool.Release()
}

func (r *UsageRefresher) refresh() {
	userNames, err := r.lister.ListActiveUserNames()
	if err != nil {
		log.Errorf("list active user names for usage refresh failed: %v", err)
		return
	}
	for _, userName := range userNames {
		userName := userName
		err := r.pool.Submit(func() {
			usage, err := r.reader.UsedWeightedGPU(userName)
			if err != nil {
				log.Errorf("refresh weighted usage of user %s failed: %v", userName, err)
				return
			}
			SetUserWeightedUsage(userName, usage)
		})
		if err != nil {
			log.Errorf("submit usage refresh task for user %s failed: %v", userName, err)
		}
	}
}
