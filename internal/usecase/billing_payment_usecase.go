package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/frc"
	"repair_costing/internal/domain/stagegate"
	"repair_costing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrBillingPaymentNotFound         = fmt.Errorf("billing payment %w", entities.ErrNotFound)
	ErrInvalidMPPayload               = errors.New("invalid mercado pago payload")
	ErrAlreadySettled                 = errors.New("assessment already settled")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// PaymentSettings controls the settlement gateway behaviour.
type PaymentSettings struct {
	// Mock skips the external gateway and approves locally.
	Mock            bool
	AccessToken     string
	TestPayerEmail  string
	TestPayerUserID string
}

func (s PaymentSettings) sandbox() bool {
	return strings.HasPrefix(strings.TrimSpace(s.AccessToken), "TEST-")
}

// IBillingPaymentUseCase settles the actual total of a signed-off FRC.
type IBillingPaymentUseCase interface {
	CreateAndApprove(ctx context.Context, assessmentID string, mpPayload json.RawMessage) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByAssessmentID(ctx context.Context, assessmentID string) ([]entities.BillingPayment, error)
}

type BillingPaymentUseCase struct {
	core
	payments interfaces.IBillingPaymentRepository
	gateway  interfaces.IPaymentGateway
	settings PaymentSettings
}

var _ IBillingPaymentUseCase = (*BillingPaymentUseCase)(nil)

func NewBillingPaymentUseCase(repo interfaces.IAssessmentRepository, payments interfaces.IBillingPaymentRepository, gateway interfaces.IPaymentGateway, audit interfaces.IAuditSink, settings PaymentSettings, logger zerolog.Logger) *BillingPaymentUseCase {
	return &BillingPaymentUseCase{
		core:     newCore(repo, audit, logger, "payment"),
		payments: payments,
		gateway:  gateway,
		settings: settings,
	}
}

func (u *BillingPaymentUseCase) CreateAndApprove(ctx context.Context, assessmentID string, mpPayload json.RawMessage) (entities.BillingPayment, error) {
	logger := u.log.With().Str("assessment_id", strings.TrimSpace(assessmentID)).Logger()
	logger.Info().Int("payload_len", len(mpPayload)).Msg("create-and-approve start")

	mockMode := u.settings.Mock
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if !mockMode {
			logger.Info().Msg("invalid payload")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		mpPayload = json.RawMessage("{}")
	}
	if !mockMode && u.gateway == nil {
		return entities.BillingPayment{}, ErrPaymentGatewayNotConfigured
	}

	a, err := u.gate(ctx, assessmentID, stagegate.OpSettle)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	existing, err := u.payments.ListByAssessmentID(ctx, a.ID)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	for _, p := range existing {
		if p.Status == entities.PaymentStatusApproved {
			logger.Info().Str("payment_id", p.ID).Msg("already settled")
			return entities.BillingPayment{}, ErrAlreadySettled
		}
	}

	snapshot, err := u.repo.LoadSnapshot(ctx, a.ID)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if snapshot.Status != entities.FRCStatusCompleted {
		return entities.BillingPayment{}, entities.NewValidationError("frc", "is not signed off")
	}
	breakdown, err := frc.Breakdown(snapshot)
	if err != nil {
		return entities.BillingPayment{}, u.logFailure(err, a.ID, string(stagegate.OpSettle))
	}
	amount := breakdown.Actual.Total.Round(2)
	if !amount.IsPositive() {
		return entities.BillingPayment{}, entities.NewValidationError("amount", "settlement total must be positive")
	}
	logger.Info().Str("amount", amount.StringFixed(2)).Msg("settlement amount computed")

	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err != nil || reqMap == nil {
		if !mockMode {
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		reqMap = map[string]any{}
	}
	if !mockMode {
		if !hasNonEmptyString(reqMap, "payment_method_id") {
			logger.Info().Msg("missing payment_method_id")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		u.normalizeSandboxPayerFromUserID(reqMap)
		u.ensurePayerDefaults(reqMap)
		if !hasPayer(reqMap) {
			logger.Info().Msg("missing or invalid payer")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
	}
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = a.ID
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = "Final repair costing " + a.ClaimReference
	}
	// The signed-off FRC is the only source of the amount.
	reqMap["transaction_amount"] = amount.InexactFloat64()
	payload, err := json.Marshal(reqMap)
	if err != nil {
		return entities.BillingPayment{}, err
	}

	// The index behind ListByAssessmentID lags writes; the slot is the
	// authoritative guard against a second charge.
	claimID := uuid.NewString()
	if err := u.payments.ClaimSettlement(ctx, a.ID, claimID); err != nil {
		if errors.Is(err, entities.ErrConcurrentModification) {
			logger.Info().Msg("settlement slot already held")
			return entities.BillingPayment{}, ErrAlreadySettled
		}
		return entities.BillingPayment{}, err
	}
	keepSlot := false
	defer func() {
		if keepSlot {
			return
		}
		if err := u.payments.ReleaseSettlement(context.WithoutCancel(ctx), a.ID, claimID); err != nil {
			logger.Warn().Err(err).Msg("settlement slot release failed")
		}
	}()

	var (
		providerPaymentID string
		providerStatus    string
		providerResp      json.RawMessage
	)
	if mockMode {
		logger.Info().Msg("mock mode enabled; skipping external payment gateway")
		providerPaymentID, providerStatus, providerResp, err = mockApproval(reqMap, u.now())
		if err != nil {
			return entities.BillingPayment{}, err
		}
	} else {
		providerPaymentID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, payload)
		if err != nil {
			logger.Warn().Err(err).Msg("payment gateway failed")
			return entities.BillingPayment{}, classifyGatewayError(err)
		}
	}
	logger.Info().Str("provider_payment_id", providerPaymentID).Str("provider_status", providerStatus).Msg("payment gateway success")

	var parsed map[string]any
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		logger.Warn().Err(err).Msg("provider response unmarshal failed")
	}

	p := entities.BillingPayment{
		ID:           providerPaymentID,
		AssessmentID: a.ID,
		Amount:       amount,
		Date:         u.now(),
		Status:       paymentStatus(providerStatus),
		MPPayloadRaw: providerResp,
		MPPayload:    parsed,
	}
	// only a denied charge gives the slot back
	keepSlot = p.Status != entities.PaymentStatusDenied
	created, err := u.payments.Create(ctx, p)
	if err != nil {
		logger.Error().Err(err).Str("payment_id", p.ID).Msg("payment repository create failed")
		return entities.BillingPayment{}, err
	}
	u.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityPayment,
		EntityID:   created.ID,
		Action:     "settlement_created",
		Metadata:   map[string]any{"assessment_id": a.ID, "amount": amount.StringFixed(2), "status": string(created.Status)},
	})
	logger.Info().Str("payment_id", created.ID).Str("status", string(created.Status)).Msg("create-and-approve success")
	return created, nil
}

func mockApproval(req map[string]any, now time.Time) (string, string, json.RawMessage, error) {
	id := strconv.FormatInt(now.UnixNano(), 10)
	resp := make(map[string]any, len(req)+5)
	for k, v := range req {
		resp[k] = v
	}
	ts := now.Format(time.RFC3339Nano)
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = ts
	resp["date_approved"] = ts
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	return id, "approved", b, nil
}

func paymentStatus(providerStatus string) entities.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "approved", "authorized":
		return entities.PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.PaymentStatusDenied
	default:
		return entities.PaymentStatusPending
	}
}

func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002"):
		return ErrPaymentGatewayCustomerNotFound
	case strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034"):
		return ErrPaymentGatewayInvalidUsers
	case strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401"):
		return ErrPaymentGatewayUnauthorized
	case strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400"):
		return ErrPaymentGatewayBadRequest
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func (u *BillingPaymentUseCase) ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox, either payer.id or payer.email may be used.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(u.settings.TestPayerEmail); email != "" {
			payer["email"] = email
		} else if u.settings.sandbox() {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

// normalizeSandboxPayerFromUserID swaps the configured sandbox test user id
// for its email, which is what the sandbox accepts.
func (u *BillingPaymentUseCase) normalizeSandboxPayerFromUserID(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") || !u.settings.sandbox() {
		return
	}
	userID := strings.TrimSpace(u.settings.TestPayerUserID)
	email := strings.TrimSpace(u.settings.TestPayerEmail)
	if userID == "" || email == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != userID {
		return
	}
	payer["email"] = email
	delete(payer, "id")
	u.log.Debug().Msg("mapped sandbox payer user_id to payer.email")
}

func (u *BillingPaymentUseCase) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.BillingPayment{}, entities.NewValidationError("payment_id", "is required")
	}
	p, err := u.payments.GetByID(ctx, id)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if p.ID == "" {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return p, nil
}

func (u *BillingPaymentUseCase) ListByAssessmentID(ctx context.Context, assessmentID string) ([]entities.BillingPayment, error) {
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return u.payments.ListByAssessmentID(ctx, a.ID)
}
