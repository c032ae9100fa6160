package store

import (
	"errors"
	"testing"

	"github.com/spirolink/SpiroLink-website-sub000/model"
)

func validPayment() *model.Payment {
	return &model.Payment{
		PaymentID:       "PAY-1700000000000-abc",
		Email:           "a@b.com",
		Name:            "A",
		ServiceType:     "X",
		Amount:          25.00,
		StripeSessionID: "cs_test_1",
		StripeIntentID:  "pi_test_1",
	}
}

func TestCreateThenGetReturnsPendingRow(t *testing.T) {
	s := NewMemoryPaymentStore()

	if err := s.Create(validPayment()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	p, err := s.GetByPaymentID("PAY-1700000000000-abc")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if p.Status != model.PaymentPending {
		t.Errorf("Expected status %s, got %s", model.PaymentPending, p.Status)
	}
	if p.Amount != 25.00 {
		t.Errorf("Expected amount 25.00, got %.2f", p.Amount)
	}
	if p.Currency != "usd" {
		t.Errorf("Expected currency usd, got %s", p.Currency)
	}
}

func TestCreateRejectsAmountBelowMinimum(t *testing.T) {
	s := NewMemoryPaymentStore()

	p := validPayment()
	p.Amount = 0.50
	err := s.Create(p)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation, got: %v", err)
	}

	if _, err := s.GetByPaymentID(p.PaymentID); !errors.Is(err, ErrNotFound) {
		t.Error("Expected no row after rejected create")
	}
}

func TestCreateRejectsMalformedEmail(t *testing.T) {
	s := NewMemoryPaymentStore()

	for _, email := range []string{"", "not-an-email", "a@b", "a b@c.com"} {
		p := validPayment()
		p.Email = email
		if err := s.Create(p); !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation for email %q, got: %v", email, err)
		}
	}
}

func TestGetByPaymentIDNotFound(t *testing.T) {
	s := NewMemoryPaymentStore()

	if _, err := s.GetByPaymentID("PAY-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got: %v", err)
	}
}

func TestLookupByProcessorReferences(t *testing.T) {
	s := NewMemoryPaymentStore()
	if err := s.Create(validPayment()); err != nil {
		t.Fatal(err)
	}

	if p, err := s.GetBySessionID("cs_test_1"); err != nil || p.PaymentID != "PAY-1700000000000-abc" {
		t.Errorf("GetBySessionID = %v, %v", p, err)
	}
	if p, err := s.GetByIntentID("pi_test_1"); err != nil || p.PaymentID != "PAY-1700000000000-abc" {
		t.Errorf("GetByIntentID = %v, %v", p, err)
	}
}

func TestUpdateStatusAppliesLegalTransition(t *testing.T) {
	s := NewMemoryPaymentStore()
	if err := s.Create(validPayment()); err != nil {
		t.Fatal(err)
	}

	p, applied, err := s.UpdateStatus("PAY-1700000000000-abc", model.PaymentSucceeded, "pi_test_1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !applied {
		t.Error("Expected transition to apply")
	}
	if p.Status != model.PaymentSucceeded || p.TransactionID != "pi_test_1" {
		t.Errorf("Expected succeeded/pi_test_1, got %s/%s", p.Status, p.TransactionID)
	}
}

func TestUpdateStatusOnTerminalRowIsNoOp(t *testing.T) {
	s := NewMemoryPaymentStore()
	if err := s.Create(validPayment()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.UpdateStatus("PAY-1700000000000-abc", model.PaymentFailed, "ch_1"); err != nil {
		t.Fatal(err)
	}

	p, applied, err := s.UpdateStatus("PAY-1700000000000-abc", model.PaymentSucceeded, "pi_other")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if applied {
		t.Error("Expected terminal row to reject further transitions")
	}
	if p.Status != model.PaymentFailed || p.TransactionID != "ch_1" {
		t.Errorf("Expected failed/ch_1 unchanged, got %s/%s", p.Status, p.TransactionID)
	}
}

func TestUpdateStatusProcessingOnlyFromPending(t *testing.T) {
	s := NewMemoryPaymentStore()
	if err := s.Create(validPayment()); err != nil {
		t.Fatal(err)
	}

	if _, applied, _ := s.UpdateStatus("PAY-1700000000000-abc", model.PaymentProcessing, ""); !applied {
		t.Fatal("Expected pending -> processing to apply")
	}
	if _, applied, _ := s.UpdateStatus("PAY-1700000000000-abc", model.PaymentProcessing, ""); applied {
		t.Error("Expected processing -> processing to be rejected")
	}
}

func TestUpdateStatusUnknownPayment(t *testing.T) {
	s := NewMemoryPaymentStore()

	if _, _, err := s.UpdateStatus("PAY-missing", model.PaymentSucceeded, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got: %v", err)
	}
}
