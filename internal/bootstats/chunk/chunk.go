package chunk

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
	"github.com/armadaproject/bootstats/internal/common/slices"
)

// Chunk returns the items assigned to task taskIndex (1-based) of taskCount.
//
// Items are split in order into contiguous chunks of ceil(len(items)/taskCount) items; the last chunk may be
// shorter. When there are fewer chunks than tasks, the surplus tasks get an empty, non-nil chunk.
func Chunk[S ~[]E, E any](items S, taskCount int, taskIndex int) (S, error) {
	if err := validate(taskCount, taskIndex); err != nil {
		return nil, err
	}
	chunks := split(items, taskCount)
	if taskIndex > len(chunks) {
		return S{}, nil
	}
	return chunks[taskIndex-1], nil
}

// Plan returns the chunk of every task, in task order. The result always has taskCount entries.
func Plan[S ~[]E, E any](items S, taskCount int) ([]S, error) {
	if err := validate(taskCount, 1); err != nil {
		return nil, err
	}
	chunks := split(items, taskCount)
	for len(chunks) < taskCount {
		chunks = append(chunks, S{})
	}
	return chunks, nil
}

// size returns the number of items per chunk when n items are split over taskCount tasks.
func size(n int, taskCount int) int {
	return (n + taskCount - 1) / taskCount
}

func split[S ~[]E, E any](items S, taskCount int) []S {
	if len(items) == 0 {
		return nil
	}
	return slices.ChunkToMaxLen(items, size(len(items), taskCount))
}

func validate(taskCount int, taskIndex int) error {
	if taskCount < 1 {
		return errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "task.count",
			Value:   taskCount,
			Message: "must be at least 1",
		})
	}
	if taskIndex < 1 || taskIndex > taskCount {
		return errors.WithStack(&bootstatserrors.ErrInvalidArgument{
			Name:    "task.index",
			Value:   taskIndex,
			Message: fmt.Sprintf("must be in [1, %d]", taskCount),
		})
	}
	return nil
}
