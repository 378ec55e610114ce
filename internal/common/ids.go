// internal/common/ids.go
package common

import (
	"strconv"
	"strings"
)

// SplitFrameSuffix extracts the canonical read ID and the reading frame if
// the input looks like "read_id_frame=3" (the marker the external
// translator appends per frame). It returns base, frame, ok.
func SplitFrameSuffix(id string) (string, int, bool) {
	mark := strings.LastIndex(id, "_frame=")
	if mark == -1 {
		return id, 0, false
	}
	frameStr := id[mark+len("_frame="):]
	frame, err := strconv.Atoi(frameStr)
	if err != nil {
		return id, 0, false
	}
	return id[:mark], frame, true
}

// CanonicalID strips frame markers, if any. Stripping is idempotent: the
// returned id never carries a marker itself, even for ids that stacked
// several through repeated translation.
func CanonicalID(id string) string {
	for {
		base, _, ok := SplitFrameSuffix(id)
		if !ok {
			return id
		}
		id = base
	}
}

// JoinBatch tags a read id with its originating batch so identical ids from
// different batches never collide in cross-batch accumulation.
func JoinBatch(readID, batch string) string {
	return readID + "@" + batch
}

// SplitBatch undoes JoinBatch. Read ids may themselves contain '@', so the
// split is on the last separator.
func SplitBatch(key string) (readID, batch string) {
	at := strings.LastIndexByte(key, '@')
	if at == -1 {
		return key, ""
	}
	return key[:at], key[at+1:]
}

// SplitRangeSuffix extracts the base ID and the 1-based start if the input
// looks like "record_id:123-456", the naming scheme sub-sequence extractors
// use for trimmed records. It returns base, start, ok.
func SplitRangeSuffix(id string) (string, int, bool) {
	colon := strings.LastIndex(id, ":")
	if colon == -1 || colon == len(id)-1 {
		return id, 0, false
	}
	suffix := id[colon+1:]
	dash := strings.IndexByte(suffix, '-')
	if dash == -1 {
		return id, 0, false
	}
	start, err := strconv.Atoi(suffix[:dash])
	if err != nil {
		return id, 0, false
	}
	if _, err := strconv.Atoi(suffix[dash+1:]); err != nil {
		return id, 0, false
	}
	return id[:colon], start, true
}
