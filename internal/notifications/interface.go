package notifications

import "github.com/cruxlabs/cruxd/internal/models"

// NotificationInterface defines the contract for alert fan-out
type NotificationInterface interface {
	SendCrisisAlerts(resp models.CrisisResponse) error
}
