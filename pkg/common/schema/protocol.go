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

package schema

import (
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultVirtualCluster = "default"

	hivedSchedulerExtraKey = "hivedScheduler"
)

// JobProtocol is the submitted description of a job. The body may be YAML or
// JSON; both are accepted.
type JobProtocol struct {
	Name      string                 `json:"name"`
	Type      string                 `json:"type,omitempty"`
	Defaults  ProtocolDefaults       `json:"defaults,omitempty"`
	TaskRoles map[string]TaskRole    `json:"taskRoles"`
	Extras    map[string]interface{} `json:"extras,omitempty"`
}

type ProtocolDefaults struct {
	VirtualCluster string `json:"virtualCluster,omitempty"`
}

// TaskRole is a named group of identical task instances.
type TaskRole struct {
	Instances           int                 `json:"instances"`
	ResourcePerInstance ResourcePerInstance `json:"resourcePerInstance"`
}

type ResourcePerInstance struct {
	CPU      int `json:"cpu"`
	MemoryMB int `json:"memoryMB"`
	GPU      int `json:"gpu"`
}

// HivedTaskRole is the per-task-role SKU assignment produced by the hived
// scheduler extras section.
type HivedTaskRole struct {
	SkuType string `mapstructure:"skuType"`
	SkuNum  int    `mapstructure:"skuNum"`
}

type hivedSchedulerExtra struct {
	TaskRoles map[string]HivedTaskRole `mapstructure:"taskRoles"`
}

// ParseJobProtocol parses a YAML or JSON job protocol body.
func ParseJobProtocol(body []byte) (*JobProtocol, error) {
	protocol := &JobProtocol{}
	if err := yaml.Unmarshal(body, protocol); err != nil {
		return nil, fmt.Errorf("parse job protocol failed: %v", err)
	}
	return protocol, nil
}

func (p *JobProtocol) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("empty job name")
	}
	if len(p.TaskRoles) == 0 {
		return fmt.Errorf("job %s has no task roles", p.Name)
	}
	for roleName, role := range p.TaskRoles {
		if role.Instances <= 0 {
			return fmt.Errorf("task role %s has non-positive instances", roleName)
		}
		if role.ResourcePerInstance.GPU < 0 {
			return fmt.Errorf("task role %s has negative gpu request", roleName)
		}
	}
	return nil
}

// VirtualCluster returns the target virtual cluster, falling back to the
// default cluster when the protocol does not name one.
func (p *JobProtocol) VirtualCluster() string {
	if p.Defaults.VirtualCluster != "" {
		return p.Defaults.VirtualCluster
	}
	return DefaultVirtualCluster
}

// HivedSkuAssignments decodes the hived scheduler extras into per-task-role
// SKU assignments. A missing or malformed extras section yields an empty map,
// never an error; SKU weighting then falls back to declared GPU counts.
func (p *JobProtocol) HivedSkuAssignments() map[string]HivedTaskRole {
	raw, find := p.Extras[hivedSchedulerExtraKey]
	if !find {
		return map[string]HivedTaskRole{}
	}
	var extra hivedSchedulerExtra
	if err := mapstructure.Decode(raw, &extra); err != nil {
		log.Warnf("decode hivedScheduler extras for job %s failed: %v", p.Name, err)
		return map[string]HivedTaskRole{}
	}
	if extra.TaskRoles == nil {
		return map[string]HivedTaskRole{}
	}
	return extra.TaskRoles
}

func (p *JobProtocol) TotalGPUNumber() int {
	total := 0
	for _, role := range p.TaskRoles {
		total += role.Instances * role.ResourcePerInstance.GPU
	}
	return total
}

func (p *JobProtocol) TotalTaskNumber() int {
	total := 0
	for _, role := range p.TaskRoles {
		total += role.Instances
	}
	return total
}

func (p *JobProtocol) TotalTaskRoleNumber() int {
	return len(p.TaskRoles)
}
