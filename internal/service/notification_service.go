package service

import (
	"encoding/json"
	"fmt"
	"log"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
	"affiliatex/internal/ws"
)

// NotificationService persists notifications and fans settlement events out to
// connected admin dashboards. It is fire-and-forget: a failed notification
// must never fail the settlement operation that triggered it.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	hub      *ws.EventHub
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, hub *ws.EventHub) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, hub: hub}
}

func (s *NotificationService) notify(userID uint, eventType, title, body string, paymentID uint, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	if userID != 0 {
		err := s.repo.Create(&models.Notification{
			UserID: userID,
			Type:   eventType,
			Title:  title,
			Body:   body,
			Data:   dataJSON,
		})
		if err != nil {
			log.Printf("[Notify] persist failed type=%s user=%d: %v", eventType, userID, err)
		}
	}
	if s.hub != nil {
		s.hub.Broadcast(ws.Event{Type: eventType, PaymentID: paymentID, Details: data})
	}
}

// notifyCompany resolves the owning company user and notifies them.
func (s *NotificationService) notifyCompany(companyID uint, eventType, title, body string, paymentID uint, data map[string]interface{}) {
	owner, err := s.userRepo.CompanyOwner(companyID)
	if err != nil {
		log.Printf("[Notify] no owner for company=%d type=%s: %v", companyID, eventType, err)
		s.notify(0, eventType, title, body, paymentID, data)
		return
	}
	s.notify(owner.ID, eventType, title, body, paymentID, data)
}

func (s *NotificationService) NotifyDisputed(creatorID, paymentID uint, reason string) {
	s.notify(creatorID, domain.EventDisputed, "Payment disputed",
		"A payment was disputed by the company: "+reason,
		paymentID, map[string]interface{}{"payment_id": paymentID, "reason": reason})
}

// NotifyInsufficientFunds escalates a funding shortfall to the owning company.
func (s *NotificationService) NotifyInsufficientFunds(companyID, paymentID uint, netCents int64) {
	s.notifyCompany(companyID, domain.EventInsufficientFunds, "Settlement funding shortfall",
		fmt.Sprintf("Payment #%d could not be settled: insufficient funds on the funding account.", paymentID),
		paymentID, map[string]interface{}{"payment_id": paymentID, "net_cents": netCents})
}

func (s *NotificationService) NotifyBelowMinimum(creatorID, paymentID uint, method string, minCents int64) {
	s.notify(creatorID, domain.EventBelowMinimum, "Payout below minimum",
		fmt.Sprintf("Payment #%d is below the %s minimum.", paymentID, method),
		paymentID, map[string]interface{}{"payment_id": paymentID, "method": method, "min_cents": minCents})
}

func (s *NotificationService) NotifySettlementFailed(creatorID, paymentID uint, reason string) {
	s.notify(creatorID, domain.EventSettlementFailed, "Settlement failed",
		"A payout attempt failed: "+reason,
		paymentID, map[string]interface{}{"payment_id": paymentID, "reason": reason})
}

func (s *NotificationService) NotifySettlementCompleted(creatorID, paymentID uint, netCents int64) {
	s.notify(creatorID, domain.EventSettlementCompleted, "Payout completed",
		fmt.Sprintf("Payment #%d was disbursed.", paymentID),
		paymentID, map[string]interface{}{"payment_id": paymentID, "net_cents": netCents})
}

func (s *NotificationService) NotifyRefunded(creatorID, paymentID uint) {
	s.notify(creatorID, domain.EventPaymentRefunded, "Payment refunded",
		fmt.Sprintf("Payment #%d was refunded.", paymentID),
		paymentID, map[string]interface{}{"payment_id": paymentID})
}
