package bootstatserrors

import (
	"os"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":                          {nil, ExitOK},
		"ErrInput":                     {&ErrInput{Path: "foo.csv"}, ExitInput},
		"ErrInvalidArgument":           {&ErrInvalidArgument{Name: "iterations"}, ExitConfig},
		"ErrSink":                      {&ErrSink{Tag: "gender"}, ExitPartialFailure},
		"pkg.Error => ErrInput":        {errors.WithMessage(&ErrInput{}, "foo"), ExitInput},
		"pkg.Error => ErrInvalidArg":   {errors.Wrap(&ErrInvalidArgument{}, "foo"), ExitConfig},
		"ErrCategory => ErrInvalidArg": {&ErrCategory{Tag: "gender", Err: &ErrInvalidArgument{}}, ExitConfig},
		"ErrInput => ErrInvalidArg":    {&ErrInput{Err: &ErrInvalidArgument{}}, ExitInput},
		"pkg.Error":                    {errors.New("foo"), ExitPartialFailure},
		"multierror of sink errors": {
			multierror.Append(nil, &ErrSink{Tag: "a"}, &ErrSink{Tag: "b"}),
			ExitPartialFailure,
		},
		"multierror takes most severe": {
			multierror.Append(nil, &ErrSink{Tag: "a"}, &ErrCategory{Tag: "b", Err: &ErrInvalidArgument{}}),
			ExitConfig,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"input with path and cause": {
			&ErrInput{Path: "data.csv.gz", Message: "cannot open", Err: os.ErrNotExist},
			`invalid input "data.csv.gz"; cannot open: file does not exist`,
		},
		"input without path": {
			&ErrInput{Message: "no header"},
			"invalid input; no header",
		},
		"invalid argument": {
			&ErrInvalidArgument{Name: "taskIndex", Value: 4, Message: "must be in [1, 3]"},
			`value 4 is invalid for field "taskIndex"; must be in [1, 3]`,
		},
		"undefined statistic": {
			&ErrUndefinedStatistic{Category: "gender", Group: []string{"male"}, Scale: "IPIP_A", Stat: "mean"},
			"mean of IPIP_A is undefined for group male of category gender: no non-missing observations",
		},
		"undefined statistic for overall group": {
			&ErrUndefinedStatistic{Scale: "IPIP_A", Stat: "median"},
			"median of IPIP_A is undefined for group <all>: no non-missing observations",
		},
		"sink": {
			&ErrSink{Tag: "gender", Path: "/out/boot_gender.csv", Err: os.ErrPermission},
			`failed to write results for category gender to "/out/boot_gender.csv": permission denied`,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := &ErrCategory{Tag: "gender", Err: &ErrSink{Tag: "gender", Err: os.ErrPermission}}
	assert.ErrorIs(t, err, os.ErrPermission)

	var sinkErr *ErrSink
	assert.True(t, errors.As(err, &sinkErr))
	assert.Equal(t, "gender", sinkErr.Tag)
}
