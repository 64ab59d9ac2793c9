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

package storage

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/common/schema"
	"github.com/gridworks/jobserver/pkg/model"
	"github.com/gridworks/jobserver/pkg/query"
)

type JobStore struct {
	db *gorm.DB
}

func newJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// columnMap maps summary field names to job table columns.
var columnMap = map[string]string{
	query.FieldJobName:         "job_name",
	query.FieldUserName:        "user_name",
	query.FieldVirtualCluster:  "virtual_cluster",
	query.FieldState:           "state",
	query.FieldJobPriority:     "job_priority",
	query.FieldSubmissionTime:  "submission_time",
	query.FieldCompletionTime:  "completion_time",
	query.FieldRetries:         "retries",
	query.FieldTotalTaskNumber: "total_task_number",
	query.FieldTotalGpuNumber:  "total_gpu_number",
}

// CreateJob creates a new job record
func (js *JobStore) CreateJob(job *model.Job) error {
	err := js.db.Create(job).Error
	if err != nil {
		log.Errorf("create job[%s] failed, error:[%s]", job.Name, err.Error())
	}
	return err
}

// GetJob returns the job with the given identity. Callers distinguish a
// missing row through gorm.ErrRecordNotFound.
func (js *JobStore) GetJob(name string) (model.Job, error) {
	var job model.Job
	tx := js.db.Table("job").Where("name = ?", name).First(&job)
	return job, tx.Error
}

// ListJob runs a composed listing spec. The returned count is the unpaged
// total and is only computed when the spec asks for it.
func (js *JobStore) ListJob(spec query.Spec) ([]model.Job, int64, error) {
	tx := js.db.Table("job")
	for _, p := range spec.Filter {
		condition, args := lowerPredicate(p)
		tx = tx.Where(condition, args...)
	}
	if len(spec.TagsContain) > 0 {
		sub := js.db.Table(model.JobTagTableName).Select("job_name").
			Where("tag IN (?)", spec.TagsContain)
		tx = tx.Where("name IN (?)", sub)
	}
	if len(spec.TagsNotContain) > 0 {
		sub := js.db.Table(model.JobTagTableName).Select("job_name").
			Where("tag IN (?)", spec.TagsNotContain)
		tx = tx.Where("name NOT IN (?)", sub)
	}

	var totalCount int64
	if spec.Page.WithTotalCount {
		if err := tx.Count(&totalCount).Error; err != nil {
			log.Errorf("count jobs failed, error:[%s]", err.Error())
			return []model.Job{}, 0, err
		}
	}

	for _, order := range spec.Order {
		tx = tx.Order(lowerOrder(order))
	}
	tx = tx.Offset(spec.Page.Offset).Limit(spec.Page.Limit)

	var jobList []model.Job
	if err := tx.Find(&jobList).Error; err != nil {
		log.Errorf("list jobs failed, error:[%s]", err.Error())
		return []model.Job{}, 0, err
	}
	return jobList, totalCount, nil
}

// lowerPredicate turns one predicate tree node into a SQL condition with
// bind arguments.
func lowerPredicate(p query.Predicate) (string, []interface{}) {
	switch node := p.(type) {
	case query.And:
		return lowerGroup([]query.Predicate(node), " AND ")
	case query.Or:
		return lowerGroup([]query.Predicate(node), " OR ")
	case query.In:
		return fmt.Sprintf("%s IN (?)", columnMap[node.Field]), []interface{}{node.Values}
	case query.Substring:
		return fmt.Sprintf("%s LIKE ?", columnMap[node.Field]), []interface{}{"%" + node.Keyword + "%"}
	case query.IsNull:
		return fmt.Sprintf("%s IS NULL", columnMap[node.Field]), nil
	default:
		log.Errorf("unknown predicate type %T, matching nothing", p)
		return "1 = 0", nil
	}
}

func lowerGroup(children []query.Predicate, op string) (string, []interface{}) {
	conditions := make([]string, 0, len(children))
	args := make([]interface{}, 0, len(children))
	for _, child := range children {
		condition, childArgs := lowerPredicate(child)
		conditions = append(conditions, condition)
		args = append(args, childArgs...)
	}
	return "(" + strings.Join(conditions, op) + ")", args
}

// lowerOrder renders one ordering term. Null-sensitive fields get an extra
// leading null-flag term so ascending order puts missing values last and
// descending order puts them first, uniformly across drivers.
func lowerOrder(order query.OrderBy) string {
	column := columnMap[order.Field]
	if order.NullSensitive {
		return fmt.Sprintf("(%s IS NULL) %s, %s %s", column, order.Direction, column, order.Direction)
	}
	return fmt.Sprintf("%s %s", column, order.Direction)
}

// UpdateExecutionType records the requested execution transition.
func (js *JobStore) UpdateExecutionType(name, executionType string) error {
	tx := js.db.Table("job").Where("name = ?", name).
		Update("execution_type", executionType)
	if tx.Error != nil {
		log.Errorf("update executionType of job[%s] failed, error:[%s]", name, tx.Error.Error())
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddTag attaches tag to the job; adding a tag twice is a no-op.
func (js *JobStore) AddTag(jobName, tag string) error {
	record := model.JobTag{JobName: jobName, Tag: tag}
	err := js.db.Where(&model.JobTag{JobName: jobName, Tag: tag}).
		FirstOrCreate(&record).Error
	if err != nil {
		log.Errorf("add tag[%s] to job[%s] failed, error:[%s]", tag, jobName, err.Error())
	}
	return err
}

// DeleteTag removes tag from the job and reports whether it was present.
func (js *JobStore) DeleteTag(jobName, tag string) (bool, error) {
	tx := js.db.Where("job_name = ? AND tag = ?", jobName, tag).
		Delete(&model.JobTag{})
	if tx.Error != nil {
		log.Errorf("delete tag[%s] of job[%s] failed, error:[%s]", tag, jobName, tx.Error.Error())
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListActiveUserNames returns the distinct owners of waiting or running
// jobs, for the usage gauge refresher.
func (js *JobStore) ListActiveUserNames() ([]string, error) {
	var userNames []string
	err := js.db.Table("job").Distinct().
		Where("state IN (?)", schema.ActiveJobStates).
		Pluck("user_name", &userNames).Error
	if err != nil {
		log.Errorf("list active user names failed, error:[%s]", err.Error())
		return nil, err
	}
	return userNames, nil
}
