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

package query

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// OrderBy is one (field, direction) pair of an ordering.
//
// NullSensitive fields place null values deterministically: ascending order
// puts nulls last, descending order puts nulls first, so running jobs (null
// completion) and unset priorities sort predictably instead of depending on
// the storage engine.
type OrderBy struct {
	Field         string
	Direction     Direction
	NullSensitive bool
}

type Page struct {
	Offset         int
	Limit          int
	WithTotalCount bool
}

// Spec is a composed job-listing query: the filter tree, tag containment and
// exclusion sets, ordering and pagination. The job store executes it.
type Spec struct {
	Filter         And
	TagsContain    []string
	TagsNotContain []string
	Order          []OrderBy
	Page           Page
}

// DefaultOrder is applied when a request supplies no valid ordering.
func DefaultOrder() []OrderBy {
	return []OrderBy{{Field: FieldSubmissionTime, Direction: Desc}}
}
