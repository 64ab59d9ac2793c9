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

package logger

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestAddFlagSet(t *testing.T) {
	logConf := LogConfig{
		Dir:        "./log",
		FilePrefix: "./jobserver",
		Level:      "INFO",
	}
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	AddFlagSet(fs, &logConf)

	err := fs.Parse([]string{
		"--log-dir=/var/log/jobserver",
		"--log-level=DEBUG",
		"--log-max-keep-days=7",
		"--log-is-compress=true",
	})
	assert.Nil(t, err)
	assert.Equal(t, "/var/log/jobserver", logConf.Dir)
	assert.Equal(t, "DEBUG", logConf.Level)
	assert.Equal(t, 7, logConf.MaxKeepDays)
	assert.True(t, logConf.IsCompress)
	// flags not passed keep the config values
	assert.Equal(t, "./jobserver", logConf.FilePrefix)
}

func TestLogFlagsDefaults(t *testing.T) {
	logConf := LogConfig{}
	flags := LogFlags(&logConf)
	assert.Len(t, flags, 8)
	for _, f := range flags {
		assert.NotEmpty(t, f.Names())
	}
}
