package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		label  string
		want   Plan
		wantOK bool
	}{
		{"monthly", PlanMonthly, true},
		{"Mensal", PlanMonthly, true},
		{"QUARTERLY", PlanQuarterly, true},
		{"trimestral", PlanQuarterly, true},
		{" semiannual ", PlanSemiannual, true},
		{"Semestral", PlanSemiannual, true},
		{"annual", PlanAnnual, true},
		{"Anual", PlanAnnual, true},
		{"weekly", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParsePlan(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_Months(t *testing.T) {
	assert.Equal(t, 1, PlanMonthly.Months())
	assert.Equal(t, 3, PlanQuarterly.Months())
	assert.Equal(t, 6, PlanSemiannual.Months())
	assert.Equal(t, 12, PlanAnnual.Months())
	assert.Equal(t, 0, Plan("weekly").Months())
	assert.False(t, Plan("weekly").Valid())
}
