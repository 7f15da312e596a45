package service

import (
	"fmt"
	"strings"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
)

// PaymentMethodService is the payout destination registry: per-type field
// validation, default selection, and the external-account gate for e-transfer.
type PaymentMethodService struct {
	methods *repository.PaymentMethodRepository
}

func NewPaymentMethodService(methods *repository.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methods: methods}
}

type RegisterMethodInput struct {
	Type          string `json:"type" binding:"required"`
	Email         string `json:"email"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	WalletAddress string `json:"wallet_address"`
	Network       string `json:"network"`
	IsDefault     bool   `json:"is_default"`
}

func (s *PaymentMethodService) Register(userID uint, in RegisterMethodInput) (*models.PaymentMethod, error) {
	m := &models.PaymentMethod{
		UserID:        userID,
		Type:          in.Type,
		Email:         strings.TrimSpace(in.Email),
		RoutingNumber: strings.TrimSpace(in.RoutingNumber),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		WalletAddress: strings.TrimSpace(in.WalletAddress),
		Network:       strings.TrimSpace(in.Network),
		IsDefault:     in.IsDefault,
	}
	if err := validateMethod(m); err != nil {
		return nil, err
	}
	if err := s.methods.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PaymentMethodService) List(userID uint) ([]models.PaymentMethod, error) {
	return s.methods.ListByUser(userID)
}

// SetDefault promotes a method, validating its required fields first so an
// incomplete method can never become the default.
func (s *PaymentMethodService) SetDefault(userID, methodID uint) error {
	m, err := s.methods.GetByID(methodID)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return domain.ErrUnauthorized
	}
	if err := validateMethod(m); err != nil {
		return err
	}
	return s.methods.SetDefault(userID, methodID)
}

func (s *PaymentMethodService) Delete(userID, methodID uint) error {
	return s.methods.Delete(userID, methodID)
}

// LinkExternalAccount attaches the external account produced by the
// onboarding flow, lifting the setup-required gate for e-transfer methods.
func (s *PaymentMethodService) LinkExternalAccount(userID, methodID uint, externalAccountID string) error {
	externalAccountID = strings.TrimSpace(externalAccountID)
	if externalAccountID == "" {
		return fmt.Errorf("%w: external account id is required", domain.ErrValidation)
	}
	m, err := s.methods.GetByID(methodID)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return domain.ErrUnauthorized
	}
	m.ExternalAccountID = externalAccountID
	return s.methods.Update(m)
}

func validateMethod(m *models.PaymentMethod) error {
	switch m.Type {
	case domain.MethodETransfer:
		if m.Email == "" {
			return fmt.Errorf("%w: e-transfer requires an email", domain.ErrValidation)
		}
	case domain.MethodPayPal:
		if m.Email == "" {
			return fmt.Errorf("%w: paypal requires an email", domain.ErrValidation)
		}
	case domain.MethodACH:
		if m.RoutingNumber == "" || m.AccountNumber == "" {
			return fmt.Errorf("%w: ach requires routing and account numbers", domain.ErrValidation)
		}
	case domain.MethodCrypto:
		if m.WalletAddress == "" || m.Network == "" {
			return fmt.Errorf("%w: crypto requires a wallet address and network", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown payout method type %q", domain.ErrValidation, m.Type)
	}
	return nil
}
