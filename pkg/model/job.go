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

package model

import (
	"database/sql"
	"time"

	"github.com/gridworks/jobserver/pkg/common/schema"
)

// Job is the persisted job record. Name is the job identity
// <userName>~<jobName>; the listing API and quota accounting read the
// summary projection of these columns.
type Job struct {
	Pk                  int64           `json:"-" gorm:"primaryKey;autoIncrement"`
	Name                string          `json:"name" gorm:"type:varchar(768);index:idx_name,unique;NOT NULL"`
	JobName             string          `json:"jobName" gorm:"type:varchar(512);NOT NULL"`
	UserName            string          `json:"userName" gorm:"type:varchar(255);index;NOT NULL"`
	ExecutionType       string          `json:"executionType" gorm:"type:varchar(32);default:'START'"`
	SubmissionTime      time.Time       `json:"submissionTime"`
	CreationTime        sql.NullTime    `json:"creationTime"`
	LaunchTime          sql.NullTime    `json:"launchTime"`
	VirtualCluster      string          `json:"virtualCluster" gorm:"type:varchar(255);index;default:'default'"`
	TotalGpuNumber      int             `json:"totalGpuNumber"`
	TotalTaskNumber     int             `json:"totalTaskNumber"`
	TotalTaskRoleNumber int             `json:"totalTaskRoleNumber"`
	JobPriority         sql.NullInt64   `json:"jobPriority"`
	Retries             int             `json:"retries"`
	RetryDelayTime      sql.NullInt64   `json:"retryDelayTime"`
	PlatformRetries     int             `json:"platformRetries"`
	ResourceRetries     int             `json:"resourceRetries"`
	UserRetries         int             `json:"userRetries"`
	CompletionTime      sql.NullTime    `json:"completionTime"`
	AppExitCode         sql.NullInt64   `json:"appExitCode"`
	SubState            string          `json:"subState" gorm:"type:varchar(64)"`
	State               schema.JobState `json:"state" gorm:"type:varchar(32);index"`
	Protocol            string          `json:"-" gorm:"type:text"`
	CreatedAt           time.Time       `json:"-"`
	UpdatedAt           time.Time       `json:"-"`
}

func (Job) TableName() string {
	return "job"
}
