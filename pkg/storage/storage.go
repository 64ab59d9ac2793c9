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
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gridworks/jobserver/pkg/query"
	"github.com/gridworks/jobserver/pkg/model"
)

var (
	DB *gorm.DB

	Job  JobStoreInterface
	User UserStoreInterface
)

type JobStoreInterface interface {
	CreateJob(job *model.Job) error
	GetJob(name string) (model.Job, error)
	ListJob(spec query.Spec) ([]model.Job, int64, error)
	UpdateExecutionType(name, executionType string) error
	AddTag(jobName, tag string) error
	DeleteTag(jobName, tag string) (bool, error)
	ListActiveUserNames() ([]string, error)
}

type UserStoreInterface interface {
	GetUserByName(name string) (model.User, error)
}

func InitStores(db *gorm.DB) {
	// do not use once.Do() because unit test need to init db twice
	Job = newJobStore(db)
	User = newUserStore(db)
}

func initMockDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		// print sql
		Logger: gormlogger.Default.LogMode(gormlogger.Info),
	})
	if err != nil {
		log.Fatalf("initMockDB open db error: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Job{},
		&model.JobTag{},
		&model.User{},
	); err != nil {
		log.Fatalf("initMockDB createDatabaseTables error[%s]", err.Error())
	}
	DB = db
	InitStores(db)
}
