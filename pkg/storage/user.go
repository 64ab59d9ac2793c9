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
	"gorm.io/gorm"

	"github.com/gridworks/jobserver/pkg/model"
)

type UserStore struct {
	db *gorm.DB
}

func newUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (us *UserStore) GetUserByName(name string) (model.User, error) {
	var user model.User
	tx := us.db.Where(&model.User{UserInfo: model.UserInfo{Name: name}}).First(&user)
	return user, tx.Error
}
