// Package workers provides a small generic job/worker-pool pair used by
// the loader to fetch the words, synonyms, and full-stop-word content
// files concurrently.
package workers

import "context"

type Job[T any] struct {
	Description JobDescriptor
	ExecFn      ExecutionFn[T]
	Args        T
}

type ExecutionFn[T any] func(ctx context.Context, args T) (T, error)

type JobID string
type jobType string
type jobMetadata map[string]interface{}

// JobDescriptor names a job for logging; JobType and Metadata are
// caller-defined tags (e.g. "words", "synonyms").
type JobDescriptor struct {
	ID       JobID
	JobType  jobType
	Metadata jobMetadata
}

// NewJobType wraps a caller-chosen tag as a jobType, since the type is
// unexported to keep callers from constructing one with an arbitrary
// underlying string by accident.
func NewJobType(name string) jobType {
	return jobType(name)
}

// NewMetadata is the exported constructor for jobMetadata.
func NewMetadata(kv map[string]interface{}) jobMetadata {
	return jobMetadata(kv)
}

type Result[T any] struct {
	Value       T
	Err         error
	Description JobDescriptor
}

func (j Job[T]) execute(ctx context.Context) Result[T] {
	value, err := j.ExecFn(ctx, j.Args)
	if err != nil {
		return Result[T]{
			Err:         err,
			Description: j.Description,
		}
	}

	return Result[T]{
		Value:       value,
		Description: j.Description,
	}
}
