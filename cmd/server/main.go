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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/gridworks/jobserver/cmd/server/flag"
	"github.com/gridworks/jobserver/pkg/apiserver/controller/job"
	v2 "github.com/gridworks/jobserver/pkg/apiserver/router/v2"
	"github.com/gridworks/jobserver/pkg/common/config"
	"github.com/gridworks/jobserver/pkg/common/logger"
	"github.com/gridworks/jobserver/pkg/metrics"
	"github.com/gridworks/jobserver/pkg/storage"
	"github.com/gridworks/jobserver/pkg/storage/driver"
	"github.com/gridworks/jobserver/pkg/version"
)

var ServerConf *config.ServerConfig

func main() {
	if err := Main(os.Args); err != nil {
		fmt.Println(err)
		gracefullyExit(err)
	}
}

func Main(args []string) error {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "version of jobserver",
		Value: false,
	}

	if err := initConfig(); err != nil {
		fmt.Println(err)
		gracefullyExit(err)
	}

	compoundFlags := [][]cli.Flag{
		flag.ApiServerFlags(&ServerConf.ApiServer),
		flag.StorageFlags(&ServerConf.Storage),
		flag.QuotaFlags(&ServerConf.Quota),
		flag.MetricsFlags(&ServerConf.Metrics),
		logger.LogFlags(&ServerConf.Log),
	}

	app := &cli.App{
		Name:                 "jobserver",
		Usage:                "job listing and quota admission services for GPU clusters",
		Version:              version.InfoStr(),
		Copyright:            "Apache License 2.0",
		HideHelpCommand:      true,
		EnableBashCompletion: true,
		Flags:                flag.ExpandFlags(compoundFlags),
		Action:               act,
	}
	return app.Run(args)
}

func act(c *cli.Context) error {
	setup()
	err := start()
	if err != nil {
		log.Errorf("start server failed. error:%s", err.Error())
	}
	return err
}

func start() error {
	admission := job.NewAdmissionController(&ServerConf.Quota, storage.Job, storage.User)

	Router := chi.NewRouter()
	v2.RegisterRouters(Router, admission)
	log.Infof("server addr:%s", fmt.Sprintf(":%d", ServerConf.ApiServer.Port))
	HttpSvr := &http.Server{
		Addr:    fmt.Sprintf(":%d", ServerConf.ApiServer.Port),
		Handler: Router,
	}
	ServerCtx, ServerCancel := context.WithCancel(context.Background())
	defer ServerCancel()

	if ServerConf.Metrics.Enable {
		metrics.StartMetricsService(ServerConf.Metrics.Port)
		if ServerConf.Metrics.UsageSyncPeriodInSeconds > 0 {
			refresher, err := metrics.NewUsageRefresher(admission, storage.Job, ServerConf.Metrics.UsageSyncWorkers)
			if err != nil {
				return err
			}
			if err := refresher.Start(ServerConf.Metrics.UsageSyncPeriodInSeconds); err != nil {
				return err
			}
			defer refresher.Stop()
		}
	}

	go serveHTTP(HttpSvr)

	stopSig := make(chan os.Signal, 1)
	signal.Notify(stopSig, syscall.SIGTERM, syscall.SIGINT)
	<-stopSig

	if err := HttpSvr.Shutdown(ServerCtx); err != nil {
		log.Infof("Server forced to shutdown:%s", err.Error())
	}
	log.Info("jobserver exiting")
	return nil
}

// serveHTTP blocks until the server stops. A graceful shutdown surfaces as
// http.ErrServerClosed and is not an error; anything else is.
func serveHTTP(srv *http.Server) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("listen: %s", err)
	}
}

func initConfig() error {
	ServerConf = &config.ServerConfig{}
	if err := config.InitConfigFromYaml(ServerConf, ""); err != nil {
		log.Errorf("InitConfigFromYaml failed. serverConf:[%+v], configPath:[%s] error:[%s]\n", ServerConf, "", err.Error())
		return err
	}
	ServerConf.Quota.ApplyDefaults()
	config.GlobalServerConfig = ServerConf
	return nil
}

func setup() {
	err := logger.InitStandardFileLogger(&ServerConf.Log)
	if err != nil {
		log.Errorf("InitStandardFileLogger err: %v", err)
		gracefullyExit(err)
	}

	log.Infof("The final server config is: %s ", config.PrettyFormat(ServerConf))

	if err := driver.InitStorage(&ServerConf.Storage, ServerConf.Log.Level); err != nil {
		log.Errorf("init storage err: %v", err)
		gracefullyExit(err)
	}
}

func gracefullyExit(err error) {
	fmt.Println(err)
	os.Exit(22)
}
