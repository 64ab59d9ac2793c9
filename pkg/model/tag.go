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
	"time"
)

const JobTagTableName = "job_tag"

// JobTag attaches a free-form tag to a job identity. Listing filters use the
// table through containment and exclusion subqueries.
type JobTag struct {
	Pk        int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	JobName   string    `json:"jobName" gorm:"type:varchar(768);index:idx_job_tag,unique;NOT NULL"`
	Tag       string    `json:"tag" gorm:"type:varchar(255);index:idx_job_tag,unique;NOT NULL"`
	CreatedAt time.Time `json:"-"`
}

func (JobTag) TableName() string {
	return JobTagTableName
}
