package mdt

import (
	"fmt"
	"sort"
	"strings"
)

const missingValue = "N/A"

// userView applies the header fallbacks for an incomplete session.
func userView(s Session) UserView {
	return UserView{
		Name:       fallback(s.Name, "Unknown"),
		Badge:      fallback(s.Badge, "Officer"),
		Department: s.Department,
		Callsign:   s.Callsign,
	}
}

func statsView(stats DashboardStats, has func(Anchor) bool) StatsView {
	all := map[Anchor]int{
		AnchorActiveCalls:    stats.ActiveCalls,
		AnchorOpenCases:      stats.OpenCases,
		AnchorArrestsToday:   stats.ArrestsToday,
		AnchorActiveWarrants: stats.ActiveWarrants,
	}
	counters := make(map[Anchor]int, len(all))
	for anchor, value := range all {
		if has(anchor) {
			counters[anchor] = value
		}
	}
	return StatsView{Counters: counters}
}

func citizenTable(records []Citizen) TableView {
	view := TableView{
		Page:         PageCitizens,
		Columns:      []string{"Citizen ID", "Name", "Date of Birth", "License", "Status", "Actions"},
		EmptyMessage: emptyMessage("citizens"),
	}
	for _, c := range records {
		status := fallback(c.Status, "active")
		view.Rows = append(view.Rows, TableRow{
			Key: string(c.CitizenID),
			Cells: []TableCell{
				{Text: fallback(string(c.CitizenID), missingValue)},
				{Text: fallback(strings.TrimSpace(c.FirstName+" "+c.LastName), missingValue)},
				{Text: fallback(c.BirthDate, missingValue)},
				{Text: fallback(c.License, missingValue)},
				{Text: status, Badge: strings.ToLower(status)},
			},
		})
	}
	return view
}

func vehicleTable(records []Vehicle) TableView {
	view := TableView{
		Page:         PageVehicles,
		Columns:      []string{"Plate", "Model", "Owner", "Status", "Insurance", "Actions"},
		EmptyMessage: emptyMessage("vehicles"),
	}
	for _, v := range records {
		status := fallback(v.Status, missingValue)
		insurance := fallback(v.Insurance, missingValue)
		view.Rows = append(view.Rows, TableRow{
			Key: v.Plate,
			Cells: []TableCell{
				{Text: fallback(v.Plate, missingValue)},
				{Text: fallback(v.Model, missingValue)},
				{Text: fallback(v.Owner, missingValue)},
				{Text: status, Badge: badgeClass(v.Status)},
				{Text: insurance, Badge: badgeClass(v.Insurance)},
			},
		})
	}
	return view
}

func incidentTable(records []Incident) TableView {
	view := TableView{
		Page:         PageIncidents,
		Columns:      []string{"ID", "Type", "Location", "Officer", "Date", "Status", "Actions"},
		EmptyMessage: emptyMessage("incidents"),
	}
	for _, inc := range records {
		view.Rows = append(view.Rows, TableRow{
			Key: string(inc.ID),
			Cells: []TableCell{
				{Text: fallback(string(inc.ID), missingValue)},
				{Text: fallback(inc.Type, missingValue)},
				{Text: fallback(inc.Location, missingValue)},
				{Text: fallback(inc.Officer, missingValue)},
				{Text: fallback(inc.Date, missingValue)},
				{Text: fallback(inc.Status, missingValue), Badge: badgeClass(inc.Status)},
			},
		})
	}
	return view
}

// genericTable renders extension pages. Columns default to the sorted keys
// of the first record.
func genericTable(def PageDefinition, rows []map[string]any) TableView {
	columns := append([]string(nil), def.Columns...)
	if len(columns) == 0 && len(rows) > 0 {
		for key := range rows[0] {
			columns = append(columns, key)
		}
		sort.Strings(columns)
	}
	view := TableView{
		Page:         def.ID,
		Columns:      columns,
		EmptyMessage: emptyMessage(fallback(def.Title, "records")),
	}
	for i, row := range rows {
		cells := make([]TableCell, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, TableCell{Text: fallback(formatCell(row[col]), missingValue)})
		}
		key := formatCell(row["id"])
		if key == "" {
			key = fmt.Sprintf("%d", i)
		}
		view.Rows = append(view.Rows, TableRow{Key: key, Cells: cells})
	}
	return view
}

func emptyMessage(title string) string {
	return fmt.Sprintf("No %s found", strings.ToLower(title))
}

func badgeClass(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
