package engine

import "time"

// TaskState is the observable status of one poll of a Task.
type TaskState int

const (
	// TaskPending means the background unit is still running.
	TaskPending TaskState = iota
	// TaskComplete is the first observation of a finished result; the poll
	// that sees it consumes the value.
	TaskComplete
	// TaskAlreadyCompleted means the result was consumed earlier. Reaching
	// it through pollTask directly is a caller bug; updateTaskRepeatable
	// uses it to re-arm.
	TaskAlreadyCompleted
	// TaskError means the background unit failed. Silent: the caller either
	// ignores it or re-arms.
	TaskError
)

type taskOutcome[T any] struct {
	value T
	err   error
}

// Task bridges one unit of possibly blocking work into the tick loop. The
// tick thread only ever polls it; the work itself runs on its own goroutine.
// Discarding a Task before completion is harmless, the orphaned goroutine's
// send lands in the buffered channel and is never observed.
type Task[T any] struct {
	ch        chan taskOutcome[T]
	completed bool
	erred     bool
	endedAt   time.Time
}

// Poll is the result of observing a Task on one tick.
type Poll[T any] struct {
	State TaskState
	Value T
	Err   error
}

// newTask arms a unit of work on a fresh goroutine.
func newTask[T any](work func() (T, error)) *Task[T] {
	t := &Task[T]{ch: make(chan taskOutcome[T], 1)}
	go func() {
		v, err := work()
		t.ch <- taskOutcome[T]{value: v, err: err}
	}()
	return t
}

// pollTask observes the task without blocking. A completed task yields
// TaskComplete exactly once and TaskAlreadyCompleted on every later poll.
func pollTask[T any](task *Task[T]) Poll[T] {
	if task.completed || task.erred {
		// Polling past consumption is a caller bug on the direct path;
		// updateTaskRepeatable relies on it to decide re-arming.
		return Poll[T]{State: TaskAlreadyCompleted}
	}
	select {
	case out := <-task.ch:
		task.endedAt = time.Now()
		if out.err != nil {
			task.erred = true
			return Poll[T]{State: TaskError, Err: out.err}
		}
		task.completed = true
		return Poll[T]{State: TaskComplete, Value: out.value}
	default:
		return Poll[T]{State: TaskPending}
	}
}

// updateTaskRepeatable polls the slot, re-arming a fresh unit of work whenever
// the slot is empty, errored, or already consumed, with at least interval
// between the end of one attempt and the start of the next. The returned poll
// is TaskPending while armed-but-unfinished or while waiting out the re-arm
// delay, and TaskComplete exactly once per successful attempt.
func updateTaskRepeatable[T any](
	interval time.Duration,
	slot **Task[T],
	work func() (T, error),
) Poll[T] {
	task := *slot
	if task == nil {
		*slot = newTask(work)
		return Poll[T]{State: TaskPending}
	}

	poll := pollTask(task)
	switch poll.State {
	case TaskAlreadyCompleted, TaskError:
		if time.Since(task.endedAt) >= interval {
			*slot = newTask(work)
		}
		return Poll[T]{State: TaskPending, Err: poll.Err}
	default:
		return poll
	}
}
