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

import (
	"strconv"
	"strings"

	"github.com/gridworks/jobserver/pkg/common/errors"
)

const (
	MaxLimit     = 50000
	DefaultLimit = 5000

	// PriorityDefault is the sentinel priority token mapping to "priority is
	// unset" rather than a literal value.
	PriorityDefault = "default"

	separatorComma = ","
)

// Params are the raw listing parameters as received from a request.
// Multi-valued parameters are comma-separated lists.
type Params struct {
	Keyword        string
	UserName       string
	VirtualCluster string
	State          string
	JobPriority    string
	TagsContain    string
	TagsNotContain string
	Order          string
	Offset         string
	Limit          string
	WithTotalCount string
}

// orderableFields is the allow-list of sortable fields; the key is the
// external name, the value the summary field it maps to.
var orderableFields = map[string]string{
	"jobName":         FieldJobName,
	"submissionTime":  FieldSubmissionTime,
	"username":        FieldUserName,
	"vc":              FieldVirtualCluster,
	"retries":         FieldRetries,
	"totalTaskNumber": FieldTotalTaskNumber,
	"totalGpuNumber":  FieldTotalGpuNumber,
	"state":           FieldState,
	"completionTime":  FieldCompletionTime,
	"jobPriority":     FieldJobPriority,
}

var nullSensitiveFields = map[string]bool{
	FieldCompletionTime: true,
	FieldJobPriority:    true,
}

// Compose translates raw listing parameters into an executable Spec. It is
// total on malformed input; the single failure case is a limit above
// MaxLimit, which is rejected rather than clamped.
func Compose(params Params) (Spec, error) {
	spec := Spec{}

	if params.UserName != "" {
		spec.Filter = append(spec.Filter, In{Field: FieldUserName, Values: splitCSV(params.UserName)})
	}
	if params.VirtualCluster != "" {
		spec.Filter = append(spec.Filter, In{Field: FieldVirtualCluster, Values: splitCSV(params.VirtualCluster)})
	}
	if params.State != "" {
		spec.Filter = append(spec.Filter, In{Field: FieldState, Values: splitCSV(params.State)})
	}
	if params.Keyword != "" {
		// keyword matches text in userName, jobName or virtualCluster; the
		// group ORs internally and ANDs with every other filter
		spec.Filter = append(spec.Filter, Or{
			Substring{Field: FieldUserName, Keyword: params.Keyword},
			Substring{Field: FieldJobName, Keyword: params.Keyword},
			Substring{Field: FieldVirtualCluster, Keyword: params.Keyword},
		})
	}
	if params.JobPriority != "" {
		spec.Filter = append(spec.Filter, composePriority(splitCSV(params.JobPriority)))
	}
	if params.TagsContain != "" {
		spec.TagsContain = splitCSV(params.TagsContain)
	}
	if params.TagsNotContain != "" {
		spec.TagsNotContain = splitCSV(params.TagsNotContain)
	}

	spec.Order = composeOrder(params.Order)

	spec.Page.Offset = parseNonNegativeInt(params.Offset, 0)
	spec.Page.Limit = parseNonNegativeInt(params.Limit, DefaultLimit)
	if spec.Page.Limit > MaxLimit {
		return Spec{}, errors.InvalidLimitError(spec.Page.Limit, MaxLimit)
	}
	spec.Page.WithTotalCount = params.WithTotalCount == "true"

	return spec, nil
}

// composePriority handles the "default" sentinel: it maps to a null check,
// composed disjunctively with any remaining explicit values. The group is
// kept independent of the keyword OR-group; both AND at the top level.
func composePriority(values []string) Predicate {
	explicit := make([]string, 0, len(values))
	hasDefault := false
	for _, v := range values {
		if v == PriorityDefault {
			hasDefault = true
			continue
		}
		explicit = append(explicit, v)
	}
	if !hasDefault {
		return In{Field: FieldJobPriority, Values: explicit}
	}
	group := Or{IsNull{Field: FieldJobPriority}}
	if len(explicit) > 0 {
		group = append(group, In{Field: FieldJobPriority, Values: explicit})
	}
	return group
}

// composeOrder parses a "field,ASC|DESC" token. Fields outside the allow-list
// and malformed directions are ignored, not errors; an empty result falls
// back to the default order.
func composeOrder(raw string) []OrderBy {
	order := []OrderBy{}
	if raw != "" {
		parts := strings.SplitN(raw, separatorComma, 2)
		if len(parts) == 2 {
			field, find := orderableFields[parts[0]]
			direction := Direction(parts[1])
			if find && (direction == Asc || direction == Desc) {
				order = append(order, OrderBy{
					Field:         field,
					Direction:     direction,
					NullSensitive: nullSensitiveFields[field],
				})
			}
		}
	}
	if len(order) == 0 {
		order = DefaultOrder()
	}
	return order
}

func splitCSV(raw string) []string {
	return strings.Split(raw, separatorComma)
}

func parseNonNegativeInt(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
