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

package config

import (
	"github.com/gridworks/jobserver/pkg/common/logger"
)

var (
	GlobalServerConfig *ServerConfig // the global ServerConfig

	serverDefaultConfPath = "./config/server/default/jobserver.yaml"
)

type ServerConfig struct {
	Storage   StorageConfig    `yaml:"database"`
	Log       logger.LogConfig `yaml:"log"`
	ApiServer ApiServerConfig  `yaml:"apiServer"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Quota     QuotaConfig      `yaml:"quota"`
}

type StorageConfig struct {
	Driver                 string `yaml:"driver"`
	Host                   string `yaml:"host"`
	Port                   string `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Database               string `yaml:"database"`
	MaxIdleConns           *int   `yaml:"maxIdleConns,omitempty"`
	MaxOpenConns           *int   `yaml:"maxOpenConns,omitempty"`
	ConnMaxLifetimeInHours *int   `yaml:"connMaxLifetimeInHours,omitempty"`
}

type ApiServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type MetricsConfig struct {
	Enable bool `yaml:"enable"`
	Port   int  `yaml:"port"`
	// UsageSyncPeriodInSeconds is the period of the weighted-usage gauge
	// refresher; zero disables it.
	UsageSyncPeriodInSeconds int `yaml:"usageSyncPeriodInSeconds"`
	UsageSyncWorkers         int `yaml:"usageSyncWorkers"`
}

// QuotaConfig carries the weighting tables and quota defaults for admission
// control. These are per-deployment configuration, never derived state.
type QuotaConfig struct {
	// SkuWeights maps hardware SKU type to its weighted GPU cost per unit.
	// SKU types absent from the table fall back to a task role's declared
	// GPU count.
	SkuWeights map[string]float64 `yaml:"skuWeights"`
	// ClusterWeights maps virtual cluster name to a usage-weight multiplier.
	// Virtual clusters absent from the table weigh 1.
	ClusterWeights map[string]float64 `yaml:"clusterWeights"`
	// DefaultUserQuota applies when a user profile has no skuLimit or the
	// profile lookup fails.
	DefaultUserQuota float64 `yaml:"defaultUserQuota"`
	// UsageQueryLimit bounds the active-job listing used to compute current
	// usage. It must exceed any realistic per-user active-job count.
	UsageQueryLimit          int `yaml:"usageQueryLimit"`
	ProfileCacheSize         int `yaml:"profileCacheSize"`
	ProfileCacheTTLInSeconds int `yaml:"profileCacheTTLInSeconds"`
}

const (
	DefaultUserQuota      = 8
	DefaultUsageLimit     = 5000
	DefaultProfileCache   = 1024
	DefaultProfileTTLSecs = 30
)

// ApplyDefaults fills the zero-valued quota knobs.
func (q *QuotaConfig) ApplyDefaults() {
	if q.DefaultUserQuota == 0 {
		q.DefaultUserQuota = DefaultUserQuota
	}
	if q.UsageQueryLimit == 0 {
		q.UsageQueryLimit = DefaultUsageLimit
	}
	if q.ProfileCacheSize == 0 {
		q.ProfileCacheSize = DefaultProfileCache
	}
	if q.ProfileCacheTTLInSeconds == 0 {
		q.ProfileCacheTTLInSeconds = DefaultProfileTTLSecs
	}
}
