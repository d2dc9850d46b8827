// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import "github.com/pkg/errors"

// AclMap is the ordered ACL collection of a SwitchState. The applier emits
// entries in priority order and the map preserves that insertion order;
// consumers must not rely on any other ordering cue.
type AclMap struct {
	nodeBase

	entries []*AclEntry
	byName  map[string]int
}

// NewAclMap creates an empty ACL map.
func NewAclMap() *AclMap {
	return &AclMap{byName: map[string]int{}}
}

// Append adds an entry at the end of the order; a duplicate name is an error.
func (m *AclMap) Append(entry *AclEntry) error {
	if _, ok := m.byName[entry.Name()]; ok {
		return errors.Errorf("duplicate ACL entry %s", entry.Name())
	}
	m.byName[entry.Name()] = len(m.entries)
	m.entries = append(m.entries, entry)
	return nil
}

// Entry returns the entry with the name, or nil.
func (m *AclMap) Entry(name string) *AclEntry {
	if m == nil {
		return nil
	}
	if idx, ok := m.byName[name]; ok {
		return m.entries[idx]
	}
	return nil
}

// Entries returns the entries in insertion (priority) order.
func (m *AclMap) Entries() []*AclEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *AclMap) Size() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// CloneWith returns a new map whose contents replace the old, preserving
// the order of the given entries.
func (m *AclMap) CloneWith(entries []*AclEntry) (*AclMap, error) {
	c := &AclMap{
		entries: entries,
		byName:  make(map[string]int, len(entries)),
	}
	c.bumpGeneration(m.nodeBase)
	for i, e := range entries {
		if _, ok := c.byName[e.Name()]; ok {
			return nil, errors.Errorf("duplicate ACL entry %s", e.Name())
		}
		c.byName[e.Name()] = i
	}
	return c, nil
}

// Equal compares the two maps entry by entry, order included.
func (m *AclMap) Equal(other *AclMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i := range m.entries {
		if !m.entries[i].Equal(other.entries[i]) {
			return false
		}
	}
	return true
}
