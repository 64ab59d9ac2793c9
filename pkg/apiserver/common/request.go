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

package common

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gridworks/jobserver/pkg/common/logger"
)

// GetRequestContext reads the caller identity placed on the request by the
// authenticating gateway.
func GetRequestContext(r *http.Request) logger.RequestContext {
	requestID := r.Header.Get(HeaderKeyRequestID)
	userName := r.Header.Get(HeaderKeyUserName)
	isAdmin := r.Header.Get(HeaderKeyAdmin) == "true"
	log.Debugf("GetRequestContext requestID:[%s] userName:[%s]", requestID, userName)
	return logger.RequestContext{
		RequestID: requestID,
		UserName:  userName,
		IsAdmin:   isAdmin,
	}
}

func BindJSON(r *http.Request, data interface{}) error {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return err
	}
	err = json.Unmarshal(body, &data)
	if err != nil {
		return err
	}
	return nil
}
