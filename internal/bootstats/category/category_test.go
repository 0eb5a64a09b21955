package category

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/armadaproject/bootstats/internal/bootstats/table"
)

func TestSpecNaming(t *testing.T) {
	tests := map[string]struct {
		spec     Spec
		name     string
		tag      string
		fileName string
	}{
		"single": {
			spec:     New("gender"),
			name:     "gender",
			tag:      "gender",
			fileName: "boot_gender.csv",
		},
		"multiple": {
			spec:     New("gender", "smoke"),
			name:     "gender,smoke",
			tag:      "gender,smoke",
			fileName: "boot_gender,smoke.csv",
		},
		"overall": {
			spec:     New(),
			name:     "",
			tag:      OverallTag,
			fileName: "boot.csv",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.spec.Name())
			assert.Equal(t, tc.tag, tc.spec.Tag())
			assert.Equal(t, tc.tag, tc.spec.String())
			assert.Equal(t, tc.fileName, tc.spec.FileName())
		})
	}
}

func TestSpecIsImmutable(t *testing.T) {
	columns := []string{"gender", "smoke"}
	spec := New(columns...)
	columns[0] = "changed"
	assert.Equal(t, []string{"gender", "smoke"}, spec.Columns())

	returned := spec.Columns()
	returned[0] = "changed"
	assert.Equal(t, []string{"gender", "smoke"}, spec.Columns())
}

func TestOverallColumns(t *testing.T) {
	for name, spec := range map[string]Spec{"New": New(), "Parse": Parse(""), "zero value": {}} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []string{}, spec.Columns())
		})
	}
}

func TestParse(t *testing.T) {
	assert.True(t, Parse("gender, smoke").Equal(New("gender", "smoke")))
	assert.True(t, Parse("").IsOverall())
	assert.Equal(t, 1, Parse("gender").Len())
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(" "))
	specs := ParseList("gender;gender,smoke;")
	assert.Equal(t, []string{"gender", "gender,smoke", OverallTag}, Names(specs))
}

func TestValidate(t *testing.T) {
	tbl := table.MustNew(
		table.NewCategorical("gender", []string{"male"}, nil),
		table.NewNumeric("IPIP_A", math.NaN()),
	)
	assert.NoError(t, New("gender").Validate(tbl))
	assert.NoError(t, New().Validate(tbl))
	assert.Error(t, New("IPIP_A").Validate(tbl))
	assert.Error(t, New("country").Validate(tbl))
	assert.Error(t, New("gender", "gender").Validate(tbl))
}

func TestFromTable(t *testing.T) {
	tbl := table.MustNew(
		table.NewCategorical("gender", []string{"male"}, nil),
		table.NewNumeric("IPIP_A", 1),
		table.NewCategorical("smoke", []string{"never"}, nil),
	)
	assert.Equal(t, []string{"gender", "smoke"}, Names(FromTable(tbl)))
}
