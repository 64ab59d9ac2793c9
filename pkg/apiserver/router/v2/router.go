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
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/gridworks/jobserver/pkg/apiserver/controller/job"
	jm "github.com/gridworks/jobserver/pkg/apiserver/middleware"
	"github.com/gridworks/jobserver/pkg/apiserver/router/util"
)

type IRouter interface {
	Name() string
	AddRouter(r chi.Router)
}

func RegisterRouters(r *chi.Mux, admission *job.AdmissionController) {
	r.Use(jm.CheckRequestID)
	r.NotFound(jm.NotFound)
	r.MethodNotAllowed(jm.MethodNotAllowed)
	r.Use(middleware.Recoverer)
	// route group
	pathPrefix := util.JobserverRouterPrefix + util.JobserverRouterVersionV2
	r.Route(pathPrefix, func(apiV2Router chi.Router) {
		AddRouter(apiV2Router, &JobRouter{admission: admission})
	})
}

func AddRouter(r chi.Router, router IRouter) {
	log.Infof("Add router[%s]", router.Name())
	router.AddRouter(r)
}
