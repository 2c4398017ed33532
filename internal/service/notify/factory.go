package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/domain"
	"homeward_notifications/internal/model"
	"homeward_notifications/internal/repository"
)

// Factory turns a (entity, action) pair from the marketplace into
// concrete notification content and fans it out to the target users.
// A failed entity lookup is logged and yields no notifications; it is
// never an error to whatever triggered the attempt.
type Factory struct {
	svc     *Service
	lookup  repository.EntityLookup
	log     *zap.Logger
	baseURL string
}

func NewFactory(cfg *config.Config, svc *Service, lookup repository.EntityLookup, logger *zap.Logger) *Factory {
	return &Factory{svc: svc, lookup: lookup, log: logger, baseURL: cfg.PortalBaseURL}
}

// Notify dispatches on entity kind. Unknown kinds produce nothing.
func (f *Factory) Notify(ctx context.Context, kind, entityID, action string, userIDs []string) []FanOutResult {
	switch kind {
	case domain.EntityServiceRequest:
		return f.NotifyServiceRequest(ctx, entityID, action, userIDs)
	case domain.EntityPayment:
		return f.NotifyPayment(ctx, entityID, action, userIDs)
	default:
		f.log.Warn("unknown entity kind for notification", zap.String("kind", kind), zap.String("action", action))
		return nil
	}
}

func (f *Factory) NotifyServiceRequest(ctx context.Context, requestID, action string, userIDs []string) []FanOutResult {
	info, err := f.lookup.ServiceRequest(ctx, requestID)
	if err != nil {
		f.log.Warn("service request lookup failed, no notification produced",
			zap.String("request_id", requestID),
			zap.String("action", action),
			zap.Error(err),
		)
		return nil
	}

	title, message, kind := serviceRequestTemplate(action, info)
	template := model.Notification{
		Title:   title,
		Message: message,
		Type:    kind,
		Related: &model.EntityRef{Kind: domain.EntityServiceRequest, ID: requestID},
		Actions: map[string]model.Action{
			"view": {Label: "View request", URL: f.baseURL + "/service-requests/" + requestID},
		},
	}
	return f.svc.FanOut(ctx, userIDs, template)
}

func (f *Factory) NotifyPayment(ctx context.Context, paymentID, action string, userIDs []string) []FanOutResult {
	info, err := f.lookup.Payment(ctx, paymentID)
	if err != nil {
		f.log.Warn("payment lookup failed, no notification produced",
			zap.String("payment_id", paymentID),
			zap.String("action", action),
			zap.Error(err),
		)
		return nil
	}

	title, message, kind := paymentTemplate(action, info)
	template := model.Notification{
		Title:   title,
		Message: message,
		Type:    kind,
		Related: &model.EntityRef{Kind: domain.EntityPayment, ID: paymentID},
		Actions: map[string]model.Action{
			"view": {Label: "View payment", URL: f.baseURL + "/payments/" + paymentID},
		},
	}
	return f.svc.FanOut(ctx, userIDs, template)
}

func serviceRequestTemplate(action string, info model.ServiceRequestInfo) (title, message, kind string) {
	subject := fmt.Sprintf("%s at %s", info.ServiceName, info.PropertyAddress)
	switch action {
	case "created":
		return "Service request created", fmt.Sprintf("Your request for %s has been created.", subject), domain.NotificationTypeInfo
	case "status_changed":
		return "Service request updated", fmt.Sprintf("Your request for %s has a new status.", subject), domain.NotificationTypeInfo
	case "new_bid":
		return "New bid received", fmt.Sprintf("A new bid came in for %s.", subject), domain.NotificationTypeInfo
	case "bid_accepted":
		return "Bid accepted", fmt.Sprintf("A bid was accepted for %s.", subject), domain.NotificationTypeSuccess
	case "payment_required":
		return "Payment required", fmt.Sprintf("Payment is required for %s.", subject), domain.NotificationTypeWarning
	case "completed":
		return "Service completed", fmt.Sprintf("%s has been completed.", subject), domain.NotificationTypeSuccess
	case "cancelled":
		return "Service request cancelled", fmt.Sprintf("Your request for %s was cancelled.", subject), domain.NotificationTypeWarning
	default:
		return "Service request update", fmt.Sprintf("There is an update on your request for %s.", subject), domain.NotificationTypeInfo
	}
}

func paymentTemplate(action string, info model.PaymentInfo) (title, message, kind string) {
	subject := fmt.Sprintf("%s for %s to %s", formatAmount(info.AmountCents), info.ServiceName, info.ProviderName)
	switch action {
	case "created":
		return "Payment initiated", fmt.Sprintf("Your payment of %s has been initiated.", subject), domain.NotificationTypeInfo
	case "completed":
		return "Payment completed", fmt.Sprintf("Your payment of %s has been completed.", subject), domain.NotificationTypeSuccess
	case "failed":
		return "Payment failed", fmt.Sprintf("Your payment of %s failed. Please update your payment method.", subject), domain.NotificationTypeError
	case "refunded":
		return "Payment refunded", fmt.Sprintf("Your payment of %s has been refunded.", subject), domain.NotificationTypeInfo
	case "received":
		return "Payment received", fmt.Sprintf("You received a payment of %s.", subject), domain.NotificationTypeSuccess
	default:
		return "Payment update", fmt.Sprintf("There is an update on your payment of %s.", subject), domain.NotificationTypeInfo
	}
}

func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
