// Copyright 2026 The Gatewatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gatewatch

import (
	"strings"
	"sync"
	"time"
)

const (
	MaxLogRecords = 1000
)

type LogRecord struct {
	Id   int64     `json:"id,string"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Log keeps the most recent supervisor log lines in a ring buffer so that
// they can be served over the REST interface.  It implements io.Writer and
// is meant to sit behind the logger (for example as one branch of a
// zerolog.MultiLevelWriter), receiving whole lines at a time.
type Log struct {
	records    []LogRecord
	numRecords int
	maxRecords int
	id         int64
	mx         sync.Mutex
}

// Write implements the Writer interface consumed by the logger.
func (log *Log) Write(b []byte) (int, error) {
	str := strings.Trim(string(b), "\n")
	log.mx.Lock()
	if log.maxRecords == 0 {
		log.maxRecords = MaxLogRecords
	}
	if log.records == nil {
		log.records = make([]LogRecord, log.maxRecords)
		log.numRecords = 0
	}
	for _, line := range strings.Split(str, "\n") {
		idx := log.numRecords % log.maxRecords
		log.id++
		log.records[idx].Text = line
		log.records[idx].Id = log.id
		log.records[idx].Time = time.Now()
		// NB: numRecords may actually be more than maxRecords.
		// In that case, we've looped, but we use this really to
		// track the next index.
		log.numRecords++
	}
	log.mx.Unlock()
	return len(b), nil
}

func (log *Log) Clear() {
	log.mx.Lock()
	log.numRecords = 0
	// We presume that we cannot add new records more quickly than
	// once every nanosecond.
	log.id = time.Now().UnixNano()
	log.mx.Unlock()
}

// GetRecords returns the records that are stored, as well as an ID
// suitable for use as a watermark.  The last parameter can be the last ID
// that was checked, in which case this function will return nil immediately
// if the log has not changed since that ID was returned, without
// duplicating any records.  These IDs are suitable for use as an Etag in
// REST APIs.  Note that IDs are not unique across different Log instances.
func (log *Log) GetRecords(last int64) ([]LogRecord, int64) {
	log.mx.Lock()
	if log.id == last {
		log.mx.Unlock()
		return nil, last
	}
	var recs []LogRecord
	cnt := log.numRecords
	cur := log.numRecords
	if log.numRecords > log.maxRecords {
		recs = make([]LogRecord, 0, log.maxRecords)
		cnt = log.maxRecords
	} else {
		recs = make([]LogRecord, 0, log.numRecords)
	}
	if cnt > cur {
		cnt = cur
	}
	index := cur - cnt
	for j := 0; j < cnt; j++ {
		recs = append(recs, log.records[index%log.maxRecords])
		index++
	}
	id := log.id
	log.mx.Unlock()
	return recs, id
}

// NewLog returns a Log instance.
func NewLog() *Log {
	return &Log{
		maxRecords: MaxLogRecords,
		id:         time.Now().UnixNano(),
	}
}
