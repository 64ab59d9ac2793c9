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

// Package query models job-listing filters, ordering and pagination as plain
// values. Predicates form a tagged-union tree built by Compose from raw
// request parameters; the storage layer lowers the tree to SQL in one place,
// so predicate semantics stay testable independent of the store.
package query

// Summary field names referenced by filters and ordering.
const (
	FieldJobName         = "jobName"
	FieldUserName        = "userName"
	FieldVirtualCluster  = "virtualCluster"
	FieldState           = "state"
	FieldJobPriority     = "jobPriority"
	FieldSubmissionTime  = "submissionTime"
	FieldCompletionTime  = "completionTime"
	FieldRetries         = "retries"
	FieldTotalTaskNumber = "totalTaskNumber"
	FieldTotalGpuNumber  = "totalGpuNumber"
)

// Predicate is one node of the filter tree.
type Predicate interface {
	isPredicate()
}

// And matches when every child predicate matches. The filter of a Spec is a
// top-level And.
type And []Predicate

// Or matches when at least one child predicate matches.
type Or []Predicate

// In matches rows whose field equals one of Values.
type In struct {
	Field  string
	Values []string
}

// Substring matches rows whose field contains Keyword.
type Substring struct {
	Field   string
	Keyword string
}

// IsNull matches rows whose field is unset.
type IsNull struct {
	Field string
}

func (And) isPredicate()       {}
func (Or) isPredicate()        {}
func (In) isPredicate()        {}
func (Substring) isPredicate() {}
func (IsNull) isPredicate()    {}
