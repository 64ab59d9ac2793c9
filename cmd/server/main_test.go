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
	"net"
	"net/http"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestServeHTTPLogsListenFailure(t *testing.T) {
	// occupy a port so ListenAndServe fails immediately
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(t, err)
	defer listener.Close()

	hook := logtest.NewGlobal()
	defer hook.Reset()

	serveHTTP(&http.Server{Addr: listener.Addr().String()})

	entry := hook.LastEntry()
	assert.NotNil(t, entry)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "listen")
}

func TestServeHTTPIgnoresGracefulClose(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	srv := &http.Server{Addr: "127.0.0.1:0"}
	assert.Nil(t, srv.Close())
	serveHTTP(srv)

	assert.Nil(t, hook.LastEntry())
}
