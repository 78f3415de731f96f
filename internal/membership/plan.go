// Package membership вычисляет статус абонемента по дате последней оплаты и плану.
//
// Статус никогда не хранится: он пересчитывается при каждом чтении
// относительно опорной даты ("сегодня").
package membership

import "strings"

// Plan период оплаты абонемента.
type Plan string

const (
	PlanMonthly    Plan = "monthly"
	PlanQuarterly  Plan = "quarterly"
	PlanSemiannual Plan = "semiannual"
	PlanAnnual     Plan = "annual"
)

// Plans перечисляет все известные планы в порядке возрастания периода.
var Plans = []Plan{PlanMonthly, PlanQuarterly, PlanSemiannual, PlanAnnual}

var planMonths = map[Plan]int{
	PlanMonthly:    1,
	PlanQuarterly:  3,
	PlanSemiannual: 6,
	PlanAnnual:     12,
}

// Названия планов, которые использует ресепшен.
var planAliases = map[string]Plan{
	"mensal":     PlanMonthly,
	"trimestral": PlanQuarterly,
	"semestral":  PlanSemiannual,
	"anual":      PlanAnnual,
}

// ParsePlan распознаёт план без учёта регистра и пробелов по краям.
func ParsePlan(label string) (Plan, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if p := Plan(key); p.Valid() {
		return p, true
	}
	p, ok := planAliases[key]
	return p, ok
}

// Valid сообщает, является ли p одним из известных планов.
func (p Plan) Valid() bool {
	_, ok := planMonths[p]
	return ok
}

// Months возвращает длину периода в месяцах, 0 для неизвестного плана.
func (p Plan) Months() int {
	return planMonths[p]
}

func (p Plan) String() string {
	return string(p)
}
