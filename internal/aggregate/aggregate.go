// Package aggregate merges, per read, the trimmed sequence contributed by
// each profile model searched against that read. Reads are accumulated
// across batches; a read only contributes a combination once every model
// discovered anywhere in the run is present for it.
package aggregate

import (
	"sort"

	"hmmtally/internal/common"
)

// Entry is one model's trimmed sequence for a read.
type Entry struct {
	Model string `json:"model"`
	Seq   string `json:"seq"`
}

// Combination is the full per-read tuple of model sequences, entries in the
// run-wide fixed model order.
type Combination struct {
	Read    string // true read id, batch tag stripped
	Entries []Entry
}

// Aggregator owns the run-wide accumulation. It is a plain value threaded
// through the pipeline; Combinations produces the immutable view once
// ingestion is done.
type Aggregator struct {
	models    map[string]struct{}
	reads     map[string]map[string]string // batch-tagged read key -> model -> seq
	readOrder []string
}

func New() *Aggregator {
	return &Aggregator{
		models: make(map[string]struct{}),
		reads:  make(map[string]map[string]string),
	}
}

// AddModel registers a model as discovered for this run, whether or not any
// read ends up with a sequence for it.
func (a *Aggregator) AddModel(model string) {
	a.models[model] = struct{}{}
}

// Models returns the discovered model names in the fixed (sorted) order
// used for combination identity.
func (a *Aggregator) Models() []string {
	out := make([]string, 0, len(a.models))
	for m := range a.models {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Batch stages one read-batch's assignments so a failed batch can be
// discarded wholesale without touching run-wide state.
type Batch struct {
	name    string
	seqs    map[string]map[string]string
	order   []string
	dropped int
}

// NewBatch starts staging for the named read batch.
func (a *Aggregator) NewBatch(name string) *Batch {
	return &Batch{name: name, seqs: make(map[string]map[string]string)}
}

// Add assigns a model's trimmed sequence to a read. The first assignment
// per (read, model) pair wins; it reports whether the assignment was taken.
func (b *Batch) Add(readID, model, seq string) bool {
	perModel, ok := b.seqs[readID]
	if !ok {
		perModel = make(map[string]string)
		b.seqs[readID] = perModel
		b.order = append(b.order, readID)
	}
	if _, dup := perModel[model]; dup {
		b.dropped++
		return false
	}
	perModel[model] = seq
	return true
}

// Dropped reports how many duplicate (read, model) assignments were refused.
func (b *Batch) Dropped() int { return b.dropped }

// Commit merges a successfully completed batch into the aggregator. Read
// keys are tagged with the batch name so identical ids across batches stay
// distinct.
func (a *Aggregator) Commit(b *Batch) {
	for _, readID := range b.order {
		key := common.JoinBatch(readID, b.name)
		perModel, ok := a.reads[key]
		if !ok {
			perModel = make(map[string]string)
			a.reads[key] = perModel
			a.readOrder = append(a.readOrder, key)
		}
		for model, seq := range b.seqs[readID] {
			if _, dup := perModel[model]; !dup {
				perModel[model] = seq
			}
		}
	}
}

// Combinations finalizes: batch tags are stripped back off, reads missing
// any discovered model are dropped entirely, and each survivor's entries
// are emitted in the fixed model order. Order across reads follows first
// ingestion, so output is reproducible for a given batch sequence.
func (a *Aggregator) Combinations() []Combination {
	models := a.Models()
	out := make([]Combination, 0, len(a.readOrder))
	for _, key := range a.readOrder {
		perModel := a.reads[key]
		if len(perModel) < len(models) {
			continue
		}
		entries := make([]Entry, 0, len(models))
		complete := true
		for _, m := range models {
			seq, ok := perModel[m]
			if !ok {
				complete = false
				break
			}
			entries = append(entries, Entry{Model: m, Seq: seq})
		}
		if !complete {
			continue
		}
		readID, _ := common.SplitBatch(key)
		out = append(out, Combination{Read: readID, Entries: entries})
	}
	return out
}
