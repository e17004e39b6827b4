package app

import (
	"fmt"
	"html"
	"strings"
	"time"

	"visa_slot_watcher/internal/domain/watchrequest"
)

const dateLayout = "2006-01-02"

func formatUnavailableMonth(month time.Time, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>🔍 Availability Check: %s</b>\n", month.Format("January 2006"))
	fmt.Fprintf(&b, "<b>Location:</b> %s\n", html.EscapeString(location))
	b.WriteString("<b>Status:</b> No Appointments Available.\n")
	b.WriteString("<i>Checking again soon...</i>")
	return b.String()
}

func formatNewSlots(month time.Time, location string, slots []time.Time) string {
	var b strings.Builder
	b.WriteString("<b>🎉 NEW VISA SLOTS FOUND! 🎉</b>\n")
	fmt.Fprintf(&b, "<b>Location:</b> %s\n", html.EscapeString(location))
	b.WriteString("<b>Cycle:</b> Constant Alert Mode\n\n")
	fmt.Fprintf(&b, "<b>%s:</b>\n", month.Format("January 2006"))
	for _, slot := range slots {
		fmt.Fprintf(&b, "  ✅ <b>%s (%s)</b> ← NEW!\n", slot.Format(dateLayout), slot.Weekday())
	}
	b.WriteString("\n🚨🚨🚨🚨🚨🚨🚨🚨🚨🚨")
	return b.String()
}

// formatEarlierSlots lists at most maxListedSlots of the given ascending slots.
func formatEarlierSlots(req *watchrequest.WatchRequest, ref time.Time, slots []time.Time) string {
	if len(slots) > maxListedSlots {
		slots = slots[:maxListedSlots]
	}
	var b strings.Builder
	b.WriteString("<b>🚨 EARLIER SLOT FOUND! 🚨</b>\n")
	fmt.Fprintf(&b, "<b>Name:</b> %s\n", html.EscapeString(req.FullName()))
	fmt.Fprintf(&b, "<b>ID:</b> <code>%s</code>\n", html.EscapeString(req.UniqueID))
	fmt.Fprintf(&b, "<b>Target:</b> Before %s\n\n", ref.Format(dateLayout))
	b.WriteString("<b>Found Slots:</b>\n")
	for _, slot := range slots {
		fmt.Fprintf(&b, "  ✅ <b>%s (%s)</b>\n", slot.Format(dateLayout), slot.Weekday())
	}
	fmt.Fprintf(&b, "\n<b>ACTION REQUIRED:</b> Log in with email <code>%s</code> to reschedule!", html.EscapeString(req.Email))
	return b.String()
}
