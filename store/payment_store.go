package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/spirolink/SpiroLink-website-sub000/model"
)

var (
	ErrNotFound   = errors.New("payment not found")
	ErrValidation = errors.New("validation failed")
)

// MinimumAmount is the smallest chargeable amount in the billing currency.
const MinimumAmount = 1.00

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PaymentStore is the persistence boundary for payment rows. Implementations
// must keep UpdateStatus idempotent under concurrent and redelivered webhook
// events: an illegal transition is a silent no-op returning the current row.
type PaymentStore interface {
	Create(p *model.Payment) error
	GetByPaymentID(paymentID string) (*model.Payment, error)
	GetBySessionID(sessionID string) (*model.Payment, error)
	GetByIntentID(intentID string) (*model.Payment, error)
	// UpdateStatus applies the transition only if it is legal for the row's
	// current status. It returns the row as stored afterwards and whether the
	// transition was applied. transactionID is written only when non-empty.
	UpdateStatus(paymentID string, newStatus model.PaymentStatus, transactionID string) (*model.Payment, bool, error)
}

// ValidatePayment enforces the creation invariants shared by every
// implementation: well-formed email, non-empty name and service label, amount
// at or above the minimum.
func ValidatePayment(p *model.Payment) error {
	if !emailPattern.MatchString(p.Email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(p.ServiceType) == "" {
		return fmt.Errorf("%w: service type is required", ErrValidation)
	}
	if p.Amount < MinimumAmount {
		return fmt.Errorf("%w: amount must be at least %.2f", ErrValidation, MinimumAmount)
	}
	return nil
}

type GormPaymentStore struct {
	DB *gorm.DB
}

func NewGormPaymentStore(db *gorm.DB) *GormPaymentStore {
	return &GormPaymentStore{DB: db}
}

func (s *GormPaymentStore) Create(p *model.Payment) error {
	if err := ValidatePayment(p); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = model.PaymentPending
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	return s.DB.Create(p).Error
}

func (s *GormPaymentStore) GetByPaymentID(paymentID string) (*model.Payment, error) {
	return s.getBy("payment_id = ?", paymentID)
}

func (s *GormPaymentStore) GetBySessionID(sessionID string) (*model.Payment, error) {
	return s.getBy("stripe_session_id = ?", sessionID)
}

func (s *GormPaymentStore) GetByIntentID(intentID string) (*model.Payment, error) {
	return s.getBy("stripe_intent_id = ?", intentID)
}

func (s *GormPaymentStore) getBy(cond string, arg string) (*model.Payment, error) {
	var p model.Payment
	if err := s.DB.Where(cond, arg).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateStatus is a single conditional statement so two racing webhook
// deliveries cannot both observe the old status and both write; the database
// row lock decides the winner and the loser's update matches zero rows.
func (s *GormPaymentStore) UpdateStatus(paymentID string, newStatus model.PaymentStatus, transactionID string) (*model.Payment, bool, error) {
	preds := model.AllowedPredecessors(newStatus)
	if len(preds) == 0 {
		p, err := s.GetByPaymentID(paymentID)
		return p, false, err
	}
	states := make([]string, len(preds))
	for i, st := range preds {
		states[i] = string(st)
	}

	updates := map[string]interface{}{"status": string(newStatus)}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}

	res := s.DB.Model(&model.Payment{}).
		Where("payment_id = ? AND status IN ?", paymentID, states).
		Updates(updates)
	if res.Error != nil {
		return nil, false, res.Error
	}

	p, err := s.GetByPaymentID(paymentID)
	if err != nil {
		return nil, false, err
	}
	return p, res.RowsAffected > 0, nil
}
