package pipeline

import (
	"iter"
	"sync"
)

type Step int

const (
	StepStats Step = iota + 1
	StepProcessTimelines
	StepTimelineStats
	StepComplete
)

var stepLabels = map[Step]string{
	StepStats:            "Fetching player stats...",
	StepProcessTimelines: "Processing match timelines...",
	StepTimelineStats:    "Fetching timeline analytics...",
	StepComplete:         "Complete!",
}

var stepNames = map[Step]string{
	StepStats:            "stats",
	StepProcessTimelines: "process_timelines",
	StepTimelineStats:    "timeline_stats",
	StepComplete:         "complete",
}

// Label is the user-facing progress text for the step.
func (s Step) Label() string {
	return stepLabels[s]
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Steps yields every progress step in the order a successful run reports
// them, ending with StepComplete.
func Steps() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for s := StepStats; s <= StepComplete; s++ {
			if !yield(s) {
				return
			}
		}
	}
}

type Progress struct {
	Step  Step   `json:"step"`
	Label string `json:"label"`
	// 1-based position of Step within Steps()
	Index int `json:"index"`
	Total int `json:"total"`
}

func newProgress(s Step) Progress {
	return Progress{Step: s, Label: s.Label(), Index: int(s), Total: int(StepComplete)}
}

// Reporter observes pipeline progress. Reports are fire-and-forget: the
// orchestrator ignores anything a reporter does, including panics.
type Reporter interface {
	Report(Progress)
}

type ReporterFunc func(Progress)

func (f ReporterFunc) Report(p Progress) { f(p) }

// Recorder keeps every reported event, for callers that want the whole
// narrative after the run.
type Recorder struct {
	mu     sync.Mutex
	events []Progress
}

func (r *Recorder) Report(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *Recorder) Events() []Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Progress, len(r.events))
	copy(out, r.events)
	return out
}

// Tee fans a report out to several reporters; nil entries are skipped.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(p Progress) {
		for _, r := range reporters {
			if r != nil {
				r.Report(p)
			}
		}
	})
}

// ChannelReporter forwards events without blocking. An event is dropped
// when the channel is full, so size the buffer to len(Steps()).
type ChannelReporter chan<- Progress

func (c ChannelReporter) Report(p Progress) {
	select {
	case c <- p:
	default:
	}
}
