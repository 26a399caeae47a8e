package parsers

import "github.com/surftrip-planner/server/internal/agent/model"

// WeekendWindow returns the Saturday and Sunday of the weekend that follows
// or contains d. A Sunday maps back to the Saturday before it.
func WeekendWindow(d model.Date) (saturday, sunday model.Date) {
	switch wd := d.WeekdayIndex(); {
	case wd < 5:
		saturday = d.AddDays(5 - wd)
	case wd == 5:
		saturday = d
	default:
		saturday = d.AddDays(-1)
	}
	return saturday, saturday.AddDays(1)
}
