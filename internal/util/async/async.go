package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes multiple tasks in parallel and waits for all of them.
// Failures are wrapped with the task name and joined in task order, so
// errors.Is works against every cause.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "subnet-a", Func: r.createSubnetA},
//	    {Name: "subnet-b", Func: r.createSubnetB},
//	}
//	if err := RunParallel(ctx, tasks); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	futures := make([]*Future[struct{}], len(tasks))
	for i, task := range tasks {
		futures[i] = Go(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, task.Func(ctx)
		})
	}

	var errs []error
	for i, outcome := range Settle(futures) {
		if outcome.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tasks[i].Name, outcome.Err))
		}
	}
	return errors.Join(errs...)
}
