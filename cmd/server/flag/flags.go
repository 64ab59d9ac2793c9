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

package flag

import (
	"github.com/urfave/cli/v2"

	"github.com/gridworks/jobserver/pkg/common/config"
)

func ApiServerFlags(apiConf *config.ApiServerConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Value:       apiConf.Host,
			Usage:       "api server host",
			Destination: &apiConf.Host,
		},
		&cli.IntFlag{
			Name:        "port",
			Value:       apiConf.Port,
			Usage:       "api server port",
			Destination: &apiConf.Port,
		},
	}
}

func StorageFlags(dbConf *config.StorageConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-driver",
			Value:       dbConf.Driver,
			Usage:       "driver",
			Destination: &dbConf.Driver,
		},
		&cli.StringFlag{
			Name:        "db-host",
			Value:       dbConf.Host,
			Usage:       "host",
			Destination: &dbConf.Host,
		},
		&cli.StringFlag{
			Name:        "db-port",
			Value:       dbConf.Port,
			Usage:       "port",
			Destination: &dbConf.Port,
		},
		&cli.StringFlag{
			Name:        "db-user",
			Value:       dbConf.User,
			Usage:       "user",
			Destination: &dbConf.User,
		},
		&cli.StringFlag{
			Name:        "db-password",
			Value:       dbConf.Password,
			Usage:       "password",
			Destination: &dbConf.Password,
		},
		&cli.StringFlag{
			Name:        "db-database",
			Value:       dbConf.Database,
			Usage:       "database",
			Destination: &dbConf.Database,
		},
	}
}

func QuotaFlags(quotaConf *config.QuotaConfig) []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "default-user-quota",
			Value:       quotaConf.DefaultUserQuota,
			Usage:       "weighted GPU quota for users without a profile limit",
			Destination: &quotaConf.DefaultUserQuota,
		},
		&cli.IntFlag{
			Name:        "usage-query-limit",
			Value:       quotaConf.UsageQueryLimit,
			Usage:       "max active jobs read per usage computation",
			Destination: &quotaConf.UsageQueryLimit,
		},
		&cli.IntFlag{
			Name:        "profile-cache-size",
			Value:       quotaConf.ProfileCacheSize,
			Usage:       "number of user profiles in the quota cache",
			Destination: &quotaConf.ProfileCacheSize,
		},
		&cli.IntFlag{
			Name:        "profile-cache-ttl-in-seconds",
			Value:       quotaConf.ProfileCacheTTLInSeconds,
			Usage:       "expire time of user profiles in the quota cache",
			Destination: &quotaConf.ProfileCacheTTLInSeconds,
		},
	}
}

func MetricsFlags(metricsConf *config.MetricsConfig) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "metrics-enable",
			Value:       metricsConf.Enable,
			Usage:       "enable the metrics service",
			Destination: &metricsConf.Enable,
		},
		&cli.IntFlag{
			Name:        "metrics-port",
			Value:       metricsConf.Port,
			Usage:       "metrics service port",
			Destination: &metricsConf.Port,
		},
		&cli.IntFlag{
			Name:        "usage-sync-period",
			Value:       metricsConf.UsageSyncPeriodInSeconds,
			Usage:       "period of the weighted usage gauge refresher in seconds",
			Destination: &metricsConf.UsageSyncPeriodInSeconds,
		},
		&cli.IntFlag{
			Name:        "usage-sync-workers",
			Value:       metricsConf.UsageSyncWorkers,
			Usage:       "worker pool size of the weighted usage gauge refresher",
			Destination: &metricsConf.UsageSyncWorkers,
		},
	}
}

func ExpandFlags(compoundFlags [][]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, flag := range compoundFlags {
		flags = append(flags, flag...)
	}
	return flags
}
