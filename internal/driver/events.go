package driver

// Stage is a pipeline step reported to an Observer.
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StagePreprocess
	StageLex
	StageCheck
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StagePreprocess:
		return "preprocess"
	case StageLex:
		return "lex"
	case StageCheck:
		return "check"
	}
	return "unknown"
}

// Status reports where a file is in the pipeline.
type Status uint8

const (
	StatusQueued Status = iota + 1
	StatusWorking
	StatusDone
	StatusError
	StatusCached
)

// Event describes a progress step for one file.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Observer receives progress events. Directory runs call it from worker
// goroutines, so it must be safe for concurrent use.
type Observer func(Event)
