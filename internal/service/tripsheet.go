package service

import (
	"fmt"
	"strings"
	"time"

	"fleet/internal/domain"
)

const sheetRule = "====================================="

// FormatTripSheet formats a trip and its fuel logs as a printable sheet.
func FormatTripSheet(trip *domain.Trip, logs []*domain.FuelLog, printedAt time.Time) string {
	var totalLiters, totalCost float64
	for _, l := range logs {
		totalLiters += l.Liters
		totalCost += l.TotalPrice
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(sheetRule)
	line("             TRIP SHEET")
	line(sheetRule)
	line("Trip ID:     %s", trip.ID)
	line("Status:      %s", trip.Status)
	line("Printed:     %s", printedAt.Format("Jan 02, 2006 15:04"))
	line("")

	line("CREW & EQUIPMENT")
	line("-------------------------------------")
	if trip.Driver != nil {
		line("Driver:      %s (%s)", trip.Driver.FullName, trip.Driver.Phone)
	} else {
		line("Driver:      %s", trip.DriverID)
	}
	if trip.Truck != nil {
		line("Truck:       %s %s %s", trip.Truck.Plate, trip.Truck.Make, trip.Truck.Model)
	} else {
		line("Truck:       %s", trip.TruckID)
	}
	switch {
	case trip.Trailer != nil:
		line("Trailer:     %s (%s)", trip.Trailer.Plate, trip.Trailer.Type)
	case trip.TrailerID != "":
		line("Trailer:     %s", trip.TrailerID)
	default:
		line("Trailer:     none")
	}
	line("")

	line("ROUTE")
	line("-------------------------------------")
	line("From:        %s", trip.Origin)
	line("To:          %s", trip.Destination)
	line("Departure:   %s", formatSheetDate(trip.StartDate))
	line("Arrival:     %s", formatSheetDate(trip.EndDate))
	line("")

	line("ODOMETER")
	line("-------------------------------------")
	line("Start:       %s km", formatFloat(trip.StartOdometer))
	if trip.EndOdometer != nil {
		line("End:         %s km", formatFloat(*trip.EndOdometer))
	} else {
		line("End:         -")
	}
	line("Distance:    %s km", formatFloat(trip.Distance()))
	line("")

	line("FUEL")
	line("-------------------------------------")
	for _, l := range logs {
		line("%s  %8s L  %10s  %s", l.Date.Format("2006-01-02"), formatFloat(l.Liters), formatFloat(l.TotalPrice), l.Station)
	}
	line("Total:       %s L / %s", formatFloat(totalLiters), formatFloat(totalCost))
	if trip.RemainingFuel != nil {
		line("Remaining:   %s L", formatFloat(*trip.RemainingFuel))
	}
	if d := trip.Distance(); d > 0 {
		line("Consumption: %s L/100km", formatFloat(totalLiters/d*100))
	}

	if trip.Notes != "" {
		line("")
		line("NOTES")
		line("-------------------------------------")
		line("%s", trip.Notes)
	}
	line(sheetRule)

	return b.String()
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatSheetDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 02, 2006 15:04")
}
