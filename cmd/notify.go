package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/frahmantamala/employee-management/internal/notification"
	"github.com/frahmantamala/employee-management/pkg/logger"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification tooling",
	Long:  `Exercise the notification pipeline without going through the HTTP API`,
}

var (
	notifyTo     string
	notifyRole   string
	notifyFrom   string
	notifyUntil  string
	notifyReason string
)

var notifyLeaveCmd = &cobra.Command{
	Use:   "leave [applied|approved|rejected]",
	Short: "Send a sample leave notification email",
	Long:  `Publish a leave event on a local bus wired to the configured mailer and wait for delivery`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLeaveNotification(args[0])
	},
}

func sendLeaveNotification(kind string) error {
	eventType := "leave." + kind
	statuses := map[string]string{
		events.EventTypeLeaveApplied:  "Pending",
		events.EventTypeLeaveApproved: "Approved",
		events.EventTypeLeaveRejected: "Rejected",
	}
	status, ok := statuses[eventType]
	if !ok {
		return fmt.Errorf("unknown leave notification %q", kind)
	}
	if notifyTo == "" {
		return fmt.Errorf("--to is required")
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	dispatcher := notification.NewDispatcher(notification.NewMailer(cfg.Mail, lg), notification.DispatcherConfig{
		Workers:   1,
		QueueSize: 1,
	}, lg)

	bus := events.NewEventBus(lg)
	notification.NewSubscriber(dispatcher, nil, lg).Register(bus)

	event := events.NewLeaveEvent(eventType, events.LeaveEventParams{
		OwnerEmail: notifyTo,
		StartDate:  notifyFrom,
		EndDate:    notifyUntil,
		Status:     status,
		Reason:     notifyReason,
		Actor:      events.Actor{Role: notifyRole},
	})

	lg.Info("publishing sample leave notification", "event_type", eventType, "to", notifyTo)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := bus.PublishSync(ctx, event); err != nil {
		return err
	}
	return dispatcher.Shutdown(ctx)
}

func init() {
	notifyLeaveCmd.Flags().StringVar(&notifyTo, "to", "", "recipient email")
	notifyLeaveCmd.Flags().StringVar(&notifyRole, "role", "Manager", "role of the deciding user")
	notifyLeaveCmd.Flags().StringVar(&notifyFrom, "from", time.Now().Format("2006-01-02"), "leave start date")
	notifyLeaveCmd.Flags().StringVar(&notifyUntil, "until", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), "leave end date")
	notifyLeaveCmd.Flags().StringVar(&notifyReason, "reason", "", "rejection reason")

	notifyCmd.AddCommand(notifyLeaveCmd)
}
