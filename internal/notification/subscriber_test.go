package notification_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/frahmantamala/employee-management/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type queueStub struct {
	mu   sync.Mutex
	msgs []notification.Message
	err  error
}

func (q *queueStub) Enqueue(msg notification.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

type pushStub struct {
	mu     sync.Mutex
	frames map[int64][][]byte
}

func (p *pushStub) SendToUser(userID int64, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames[userID] = append(p.frames[userID], message)
}

func leaveEvent(eventType, reason string) *events.LeaveEvent {
	return events.NewLeaveEvent(eventType, events.LeaveEventParams{
		LeaveID:     11,
		EmployeeID:  3,
		OwnerUserID: 7,
		OwnerEmail:  "worker@example.com",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-12",
		Status:      "Approved",
		Reason:      reason,
		Actor:       events.Actor{ID: 9, Role: "Manager"},
	})
}

var _ = Describe("LeaveMessage", func() {
	It("should describe a new application", func() {
		msg, ok := notification.LeaveMessage(leaveEvent(events.EventTypeLeaveApplied, ""))
		Expect(ok).To(BeTrue())
		Expect(msg.To).To(Equal("worker@example.com"))
		Expect(msg.Subject).To(Equal("Leave Application Submitted"))
		Expect(msg.Body).To(Equal("Your leave request from 2025-06-10 to 2025-06-12 has been submitted and is pending approval."))
	})

	It("should name the deciding role", func() {
		msg, ok := notification.LeaveMessage(leaveEvent(events.EventTypeLeaveApproved, ""))
		Expect(ok).To(BeTrue())
		Expect(msg.Subject).To(Equal("Leave Request Approved"))
		Expect(msg.Body).To(HaveSuffix("has been APPROVED by a Manager."))
	})

	It("should append a rejection reason", func() {
		msg, ok := notification.LeaveMessage(leaveEvent(events.EventTypeLeaveRejected, "short staffed"))
		Expect(ok).To(BeTrue())
		Expect(msg.Subject).To(Equal("Leave Request Rejected"))
		Expect(msg.Body).To(ContainSubstring("REJECTED by a Manager. Reason: short staffed"))
	})

	It("should skip owners without an address", func() {
		e := leaveEvent(events.EventTypeLeaveApplied, "")
		e.OwnerEmail = ""
		_, ok := notification.LeaveMessage(e)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Subscriber", func() {
	var (
		queue      *queueStub
		pusher     *pushStub
		bus        *events.EventBus
		subscriber *notification.Subscriber
	)

	BeforeEach(func() {
		queue = &queueStub{}
		pusher = &pushStub{frames: map[int64][][]byte{}}
		bus = events.NewEventBus(testLogger())
		subscriber = notification.NewSubscriber(queue, pusher, testLogger())
		subscriber.Register(bus)
	})

	It("should email and push leave events to the owner", func() {
		Expect(bus.PublishSync(context.Background(), leaveEvent(events.EventTypeLeaveApproved, ""))).To(Succeed())

		Expect(queue.msgs).To(HaveLen(1))
		Expect(queue.msgs[0].Subject).To(Equal("Leave Request Approved"))

		Expect(pusher.frames[7]).To(HaveLen(1))
		var frame notification.Notification
		Expect(json.Unmarshal(pusher.frames[7][0], &frame)).To(Succeed())
		Expect(frame.Type).To(Equal(events.EventTypeLeaveApproved))
	})

	It("should push request events to the requester", func() {
		e := events.NewRequestEvent(events.EventTypeRequestManagerApproved, 5, 21, "Pending Admin", "", events.Actor{ID: 9, Role: "Manager"})
		Expect(bus.PublishSync(context.Background(), e)).To(Succeed())

		Expect(queue.msgs).To(BeEmpty())
		Expect(pusher.frames[21]).To(HaveLen(1))
		Expect(string(pusher.frames[21][0])).To(ContainSubstring(`"status":"Pending Admin"`))
	})

	It("should not fail the publisher when the email queue is full", func() {
		queue.err = notification.ErrQueueFull
		Expect(bus.PublishSync(context.Background(), leaveEvent(events.EventTypeLeaveApplied, ""))).To(Succeed())
		Expect(pusher.frames[7]).To(HaveLen(1))
	})
})
