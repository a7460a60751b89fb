package notification

import (
	"fmt"

	"github.com/frahmantamala/employee-management/internal/core/events"
)

// LeaveMessage builds the email sent to a leave's owner. It reports false
// for events that do not notify or owners without an address.
func LeaveMessage(e *events.LeaveEvent) (Message, bool) {
	if e == nil || e.OwnerEmail == "" {
		return Message{}, false
	}

	msg := Message{To: e.OwnerEmail}
	switch e.EventType() {
	case events.EventTypeLeaveApplied:
		msg.Subject = "Leave Application Submitted"
		msg.Body = fmt.Sprintf("Your leave request from %s to %s has been submitted and is pending approval.", e.StartDate, e.EndDate)
	case events.EventTypeLeaveApproved:
		msg.Subject = "Leave Request Approved"
		msg.Body = fmt.Sprintf("Your leave request from %s to %s has been APPROVED by a %s.", e.StartDate, e.EndDate, e.Actor.Role)
	case events.EventTypeLeaveRejected:
		msg.Subject = "Leave Request Rejected"
		msg.Body = fmt.Sprintf("Your leave request from %s to %s has been REJECTED by a %s.", e.StartDate, e.EndDate, e.Actor.Role)
		if e.Reason != "" {
			msg.Body += fmt.Sprintf(" Reason: %s", e.Reason)
		}
	default:
		return Message{}, false
	}
	return msg, true
}
