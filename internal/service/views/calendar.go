package views

import "time"

// Cell is one slot in a calendar layout. Blank cells pad the month
// grid so each row is a full Sunday-to-Saturday week; their Date is
// the zero time.
type Cell struct {
	Date  time.Time
	Blank bool
}

// MonthGrid returns the ordered cells for a month layout: leading
// blanks before the 1st, one cell per day, trailing blanks to complete
// the last week. Weeks start on Sunday.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	cells := make([]Cell, 0, lead+daysInMonth+6)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= daysInMonth; d++ {
		cells = append(cells, Cell{Date: time.Date(year, month, d, 0, 0, 0, 0, time.Local)})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{Blank: true})
	}
	return cells
}

// WeekGrid returns the seven days of the week containing anchor,
// Sunday first.
func WeekGrid(anchor time.Time) []Cell {
	y, m, d := anchor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, anchor.Location())
	sunday := day.AddDate(0, 0, -int(day.Weekday()))

	cells := make([]Cell, 7)
	for i := range cells {
		cells[i] = Cell{Date: sunday.AddDate(0, 0, i)}
	}
	return cells
}
