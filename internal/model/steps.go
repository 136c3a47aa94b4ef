package model

// StepQueue is the ordered list of labels still to be clicked.
// Steps are consumed from the front only.
type StepQueue struct {
	steps []string
}

// NewStepQueue copies steps into a new queue.
func NewStepQueue(steps []string) *StepQueue {
	q := &StepQueue{steps: make([]string, len(steps))}
	copy(q.steps, steps)
	return q
}

// Current returns the front step. ok is false when the queue is empty.
func (q *StepQueue) Current() (step string, ok bool) {
	if len(q.steps) == 0 {
		return "", false
	}
	return q.steps[0], true
}

// Pop removes and returns the front step.
func (q *StepQueue) Pop() (string, bool) {
	step, ok := q.Current()
	if ok {
		q.steps = q.steps[1:]
	}
	return step, ok
}

func (q *StepQueue) Len() int { return len(q.steps) }

func (q *StepQueue) Empty() bool { return len(q.steps) == 0 }

// Remaining returns a copy of the pending steps in order.
func (q *StepQueue) Remaining() []string {
	out := make([]string, len(q.steps))
	copy(out, q.steps)
	return out
}
