// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rpmpack

import (
	"fmt"
	"regexp"
)

type rpmSense uint32

// SenseAny specifies no specific version compare
// SenseLess specifies less then the specified version
// SenseGreater specifies greater then the specified version
// SenseEqual specifies equal to the specified version
const (
	SenseAny  rpmSense = 0
	SenseLess rpmSense = 1 << iota
	SenseGreater
	SenseEqual
)

type relationCategory string

// The four dependency groups HeaderView tracks; unlike full rpm, weak
// dependency categories (suggests, recommends) are not part of this
// library's header schema.
const (
	RequiresCategory  relationCategory = "requires"
	ObsoletesCategory relationCategory = "obsoletes"
	ConflictsCategory relationCategory = "conflicts"
	ProvidesCategory  relationCategory = "provides"
)

var relationMatch = regexp.MustCompile(`([^=<>\s]*)\s*((?:=|>|<|>=|<=)*)\s*(.*)?`)

// Relation is one entry of a dependency group: a package name, an optional
// version, and the comparison sense against that version.
type Relation struct {
	Name    string
	Version string
	Sense   rpmSense
}

// String returns the conventional "name<sense>version" representation.
func (r *Relation) String() string {
	return fmt.Sprintf("%s%v%s", r.Name, r.Sense, r.Version)
}

// GoString returns the string representation of the Relation.
func (r *Relation) GoString() string { return r.String() }

// Equal compares two relations for equality.
func (r *Relation) Equal(o *Relation) bool { return r.String() == o.String() }

// Relations is a slice of Relation pointers forming one dependency group.
type Relations []*Relation

// String returns the comma-separated representation of the group.
func (r Relations) String() string {
	var val string
	for idx, relation := range r {
		val += fmt.Sprintf("%s%v%s", relation.Name, relation.Sense, relation.Version)
		if idx < len(r)-1 {
			val += ","
		}
	}
	return val
}

// GoString returns the string representation of the Relations.
func (r Relations) GoString() string { return r.String() }

// Set parses value into a Relation and appends it if not already present.
// This makes Relations usable as a pflag.Value for repeated CLI flags.
func (r *Relations) Set(value string) error {
	relation, err := NewRelation(value)
	if err != nil {
		return err
	}
	r.addIfMissing(relation)
	return nil
}

// Type reports the pflag.Value type name.
func (r *Relations) Type() string { return "relation" }

func (r *Relations) addIfMissing(value *Relation) {
	for _, relation := range *r {
		if relation.Equal(value) {
			return
		}
	}
	*r = append(*r, value)
}

// ApplyTo installs this dependency group onto h under category.
func (r Relations) ApplyTo(h *HeaderView, category relationCategory) error {
	names := make([]string, len(r))
	versions := make([]string, len(r))
	flags := make([]int32, len(r))
	for i, relation := range r {
		names[i] = relation.Name
		versions[i] = relation.Version
		flags[i] = int32(uint32(relation.Sense))
	}
	switch category {
	case ProvidesCategory:
		return h.SetProvides(names, flags, versions)
	case RequiresCategory:
		return h.SetRequires(names, flags, versions)
	case ConflictsCategory:
		return h.SetConflicts(names, flags, versions)
	case ObsoletesCategory:
		return h.SetObsoletes(names, flags, versions)
	default:
		return badConfig("unknown dependency category %q", category)
	}
}

// NewRelation parses a "name[sense]version" string into a Relation, e.g.
// "glibc>=2.17".
func NewRelation(related string) (*Relation, error) {
	parts := relationMatch.FindStringSubmatch(related)
	sense, err := parseSense(parts[2])
	if err != nil {
		return nil, err
	}
	return &Relation{Name: parts[1], Version: parts[3], Sense: sense}, nil
}

var senseStrings = map[rpmSense]string{
	SenseAny:                  "",
	SenseLess:                 "<",
	SenseGreater:              ">",
	SenseEqual:                "=",
	SenseLess | SenseEqual:    "<=",
	SenseGreater | SenseEqual: ">=",
}

// String returns the comparison operator this sense represents.
func (r rpmSense) String() string {
	if ret, ok := senseStrings[r]; ok {
		return ret
	}
	return "UNKNOWN"
}

// GoString returns the string representation of the rpmSense.
func (r rpmSense) GoString() string { return r.String() }

func parseSense(sense string) (rpmSense, error) {
	for ret, toMatch := range senseStrings {
		if sense == toMatch {
			return ret, nil
		}
	}
	return 0, fmt.Errorf("unknown sense value %q", sense)
}
