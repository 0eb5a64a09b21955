package chunk

import (
	"github.com/pkg/errors"
)

// Task identifies one member of a job array. ID and MinID are the raw scheduler values
// (SLURM_ARRAY_TASK_ID and SLURM_ARRAY_TASK_MIN); Count is SLURM_ARRAY_TASK_COUNT.
type Task struct {
	Count int `mapstructure:"count" validate:"gte=1"`
	ID    int `mapstructure:"id"`
	MinID int `mapstructure:"minId"`
}

// SingleJob is the task of a run that is not part of an array.
var SingleJob = Task{Count: 1, ID: 1, MinID: 1}

// Index is the 1-based position of the task within the array.
func (t Task) Index() int {
	return t.ID - t.MinID + 1
}

func (t Task) IsArray() bool {
	return t.Count > 1
}

func (t Task) Validate() error {
	if err := validate(t.Count, t.Index()); err != nil {
		return errors.WithMessagef(err, "task id %d with min id %d", t.ID, t.MinID)
	}
	return nil
}
