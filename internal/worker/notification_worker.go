package worker

import (
	"github.com/spec-kit/order-resolution-service/internal/service"
)

// StartNotificationWorker subscribes the note renderer to resolution events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
