package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"pos-dashboard-sync/internal/catalog"
	"pos-dashboard-sync/internal/client"
	"pos-dashboard-sync/internal/config"
	"pos-dashboard-sync/internal/metrics"
	"pos-dashboard-sync/internal/model"
	"pos-dashboard-sync/internal/repository"
	"strconv"
)

const (
	HeaderSignature   = "x-signature"
	HeaderEnvironment = "environment"
	HeaderRetryNumber = "retry-number"

	EnvironmentProduction = "production"

	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventPaymentUpdated     = "payment.updated"
	EventFulfillmentUpdated = "order.fulfillment.updated"

	PaymentCompleted = "COMPLETED"

	OutcomeSuccess = "success"
	OutcomeIgnored = "ignored"
)

// ErrWebhookRejected marks deliveries that fail authentication or parsing;
// the handler answers those with 400, everything else with 500.
var ErrWebhookRejected = errors.New("webhook rejected")

// MappingFunc supplies a catalog snapshot for one delivery. Injected so the
// snapshot stays request-scoped and tests can stub it.
type MappingFunc func(ctx context.Context) catalog.Mapping

type WebhookService interface {
	Handle(ctx context.Context, header http.Header, body []byte) (string, error)
}

type webhookServiceImpl struct {
	posCfg           config.Pos
	posClient        client.PosClient
	upserter         UpsertService
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	mappingFn        MappingFunc
	metrics          *metrics.Registry
}

func NewWebhookService(
	posCfg config.Pos,
	posClient client.PosClient,
	upserter UpsertService,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	mappingFn MappingFunc,
	m *metrics.Registry,
) WebhookService {
	return &webhookServiceImpl{
		posCfg:           posCfg,
		posClient:        posClient,
		upserter:         upserter,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		mappingFn:        mappingFn,
		metrics:          m,
	}
}

func (s *webhookServiceImpl) Handle(ctx context.Context, header http.Header, body []byte) (string, error) {
	// Gates that must hold before the body is trusted at all.
	if header.Get(HeaderEnvironment) != EnvironmentProduction {
		s.metrics.WebhookRejected.Inc()
		return "", fmt.Errorf("%w: non-production environment", ErrWebhookRejected)
	}
	signature := header.Get(HeaderSignature)
	if signature == "" {
		s.metrics.WebhookRejected.Inc()
		return "", fmt.Errorf("%w: missing signature header", ErrWebhookRejected)
	}
	if s.posCfg.WebhookSecret == "" {
		s.metrics.WebhookRejected.Inc()
		return "", fmt.Errorf("%w: webhook secret not configured", ErrWebhookRejected)
	}
	if !VerifySignature(s.posCfg.NotificationURL, body, signature, s.posCfg.WebhookSecret) {
		s.metrics.WebhookRejected.Inc()
		return "", fmt.Errorf("%w: invalid signature", ErrWebhookRejected)
	}

	var envelope model.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		s.metrics.WebhookRejected.Inc()
		return "", fmt.Errorf("%w: decode envelope: %v", ErrWebhookRejected, err)
	}

	outcome, err := s.route(ctx, &envelope)
	if err != nil {
		if errors.Is(err, ErrWebhookRejected) {
			s.metrics.WebhookRejected.Inc()
		}
		return "", err
	}

	if outcome == OutcomeSuccess {
		s.metrics.WebhookApplied.Inc()
	} else {
		s.metrics.WebhookIgnored.Inc()
	}

	retryNumber, _ := strconv.Atoi(header.Get(HeaderRetryNumber))
	if err := s.webhookEventRepo.Record(ctx, envelope.EventID, envelope.Type, envelope.MerchantID, int32(retryNumber)); err != nil {
		// audit only, never fails the delivery
		log.Printf("record webhook event %s: %v", envelope.EventID, err)
	}

	return outcome, nil
}

func (s *webhookServiceImpl) route(ctx context.Context, envelope *model.WebhookEnvelope) (string, error) {
	switch envelope.Type {
	case EventOrderCreated, EventOrderUpdated:
		var obj model.OrderObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return "", fmt.Errorf("%w: decode order object: %v", ErrWebhookRejected, err)
		}
		if err := s.upserter.ApplyOrders(ctx, s.mappingFn(ctx), []*model.PosOrder{&obj.Order}); err != nil {
			return "", fmt.Errorf("apply order %s (event %s): %w", obj.Order.ID, envelope.EventID, err)
		}
		return OutcomeSuccess, nil

	case EventPaymentUpdated:
		var obj model.PaymentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return "", fmt.Errorf("%w: decode payment object: %v", ErrWebhookRejected, err)
		}
		if obj.Payment.Status != PaymentCompleted {
			return OutcomeIgnored, nil
		}
		// The payment event carries no order snapshot; fetch the
		// authoritative one rather than inferring state.
		order, err := s.posClient.RetrieveOrder(ctx, obj.Payment.OrderID)
		if err != nil {
			return "", fmt.Errorf("retrieve order %s (event %s): %w", obj.Payment.OrderID, envelope.EventID, err)
		}
		if err := s.upserter.ApplyOrders(ctx, s.mappingFn(ctx), []*model.PosOrder{order}); err != nil {
			return "", fmt.Errorf("apply order %s (event %s): %w", order.ID, envelope.EventID, err)
		}
		return OutcomeSuccess, nil

	case EventFulfillmentUpdated:
		var obj model.FulfillmentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return "", fmt.Errorf("%w: decode fulfillment object: %v", ErrWebhookRejected, err)
		}
		// No state inference from fulfillments; just record that the order
		// moved. Unknown orders are a no-op.
		touched, err := s.orderRepo.TouchByOrderID(ctx, obj.Fulfillment.OrderID)
		if err != nil {
			return "", fmt.Errorf("touch order %s (event %s): %w", obj.Fulfillment.OrderID, envelope.EventID, err)
		}
		if !touched {
			return OutcomeIgnored, nil
		}
		return OutcomeSuccess, nil

	default:
		log.Printf("ignoring unrecognized webhook type %q (event %s)", envelope.Type, envelope.EventID)
		return OutcomeIgnored, nil
	}
}
