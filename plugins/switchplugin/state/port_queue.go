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

// StreamType selects which traffic class a queue serves.
type StreamType uint8

const (
	StreamUnicast StreamType = iota
	StreamMulticast
	StreamAll
)

// QueueScheduling selects the scheduling discipline of a queue.
type QueueScheduling uint8

const (
	SchedulingWeightedRoundRobin QueueScheduling = iota
	SchedulingStrictPriority
)

// AqmLinearDetection is the linear early-detection profile of an AQM config.
type AqmLinearDetection struct {
	MinThresholdBytes int
	MaxThresholdBytes int
}

// QueueAqm is the active queue management configuration of a queue.
// Detection must be set whenever an AQM block is configured.
type QueueAqm struct {
	Detection *AqmLinearDetection
	EarlyDrop bool
	Ecn       bool
}

func (a *QueueAqm) equal(b *QueueAqm) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.EarlyDrop != b.EarlyDrop || a.Ecn != b.Ecn {
		return false
	}
	if a.Detection == nil || b.Detection == nil {
		return a.Detection == b.Detection
	}
	return *a.Detection == *b.Detection
}

// PortQueue describes one hardware egress queue of a port. The number of
// queues per port is fixed by the platform; the applier only rewrites their
// parameters.
type PortQueue struct {
	nodeBase

	id            uint8
	streamType    StreamType
	scheduling    QueueScheduling
	weight        *int
	reservedBytes *int
	scalingFactor *int
	aqm           *QueueAqm
}

// NewPortQueue returns a queue with hardware default parameters.
func NewPortQueue(id uint8) *PortQueue {
	return &PortQueue{id: id}
}

func (q *PortQueue) ID() uint8                    { return q.id }
func (q *PortQueue) StreamType() StreamType       { return q.streamType }
func (q *PortQueue) Scheduling() QueueScheduling  { return q.scheduling }
func (q *PortQueue) Weight() *int                 { return q.weight }
func (q *PortQueue) ReservedBytes() *int          { return q.reservedBytes }
func (q *PortQueue) ScalingFactor() *int          { return q.scalingFactor }
func (q *PortQueue) Aqm() *QueueAqm               { return q.aqm }

// Clone returns a field-equal copy of the queue. Setters must only ever be
// invoked on a freshly cloned or newly constructed node.
func (q *PortQueue) Clone() *PortQueue {
	c := *q
	c.bumpGeneration(q.nodeBase)
	return &c
}

func (q *PortQueue) SetStreamType(t StreamType)      { q.streamType = t }
func (q *PortQueue) SetScheduling(s QueueScheduling) { q.scheduling = s }
func (q *PortQueue) SetWeight(w int)                 { q.weight = &w }
func (q *PortQueue) SetReservedBytes(b int)          { q.reservedBytes = &b }
func (q *PortQueue) SetScalingFactor(f int)          { q.scalingFactor = &f }
func (q *PortQueue) SetAqm(a *QueueAqm)              { q.aqm = a }

// Equal compares every field of the two queues.
func (q *PortQueue) Equal(other *PortQueue) bool {
	if q == nil || other == nil {
		return q == other
	}
	return q.id == other.id &&
		q.streamType == other.streamType &&
		q.scheduling == other.scheduling &&
		eqPtr(q.weight, other.weight) &&
		eqPtr(q.reservedBytes, other.reservedBytes) &&
		eqPtr(q.scalingFactor, other.scalingFactor) &&
		q.aqm.equal(other.aqm)
}

func queuesEqual(a, b []*PortQueue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
