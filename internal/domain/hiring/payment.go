package hiring

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/lock"
)

// InitiatePayment records the client's payment against a Signed contract.
// The candidate is only told once an admin disburses it
func (s *Service) InitiatePayment(ctx context.Context, actorID, contractID string, amount decimal.Decimal, notes string) (domain.Payment, error) {
	if !amount.IsPositive() {
		return domain.Payment{}, domain.Invalid("payment amount must be greater than zero, got %s", amount)
	}

	var payment domain.Payment
	err := s.run(ctx, "initiate_payment", func(ctx context.Context) error {
		return s.locks.WithLock(ctx, lock.Key("contract", contractID), func(ctx context.Context) error {
			contract, err := load(ctx, s.repos.Contracts, "contract", contractID)
			if err != nil {
				return err
			}
			if _, err := s.dir.RequireOrgAccess(ctx, actorID, contract.OrganizationID); err != nil {
				return err
			}
			if contract.Status != domain.ContractSigned {
				return domain.InvalidState("contract %s is %s, payments need a Signed contract", contractID, contract.Status)
			}

			payment = domain.Payment{
				ID:             s.newID(),
				ContractID:     contract.ID,
				OrganizationID: contract.OrganizationID,
				CandidateID:    contract.CandidateID,
				ClientName:     contract.ClientName,
				CandidateName:  contract.CandidateName,
				Amount:         amount,
				Notes:          notes,
				PaymentDate:    s.now(),
				Status:         domain.PaymentPending,
			}
			if err := s.repos.Payments.Create(ctx, payment); err != nil {
				return fmt.Errorf("hiring: create payment: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.recorder.Transition("payment", string(payment.Status))
	s.logger.Info("payment initiated", "payment_id", payment.ID, "contract_id", contractID, "amount", payment.Amount.String())
	return payment, nil
}

// DisbursePayment marks a pending payment as paid out. Only admins disburse
// and a payment is disbursed once
func (s *Service) DisbursePayment(ctx context.Context, actorID, paymentID string) (domain.Payment, error) {
	var payment domain.Payment
	err := s.run(ctx, "disburse_payment", func(ctx context.Context) error {
		if _, err := s.dir.RequireAdmin(ctx, actorID); err != nil {
			return err
		}

		return s.locks.WithLock(ctx, lock.Key("payment", paymentID), func(ctx context.Context) error {
			var err error
			payment, err = save(ctx, s.repos.Payments, "payment", paymentID, func(p *domain.Payment) error {
				if p.Status != domain.PaymentPending {
					return domain.InvalidState("payment %s is already %s", paymentID, p.Status)
				}
				now := s.now()
				p.Status = domain.PaymentDisbursed
				p.DisbursementDate = &now
				return nil
			})
			return err
		})
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.recorder.Transition("payment", string(payment.Status))
	s.logger.Info("payment disbursed", "payment_id", paymentID, "actor_id", actorID)

	cand, err := load(ctx, s.repos.Candidates, "candidate", payment.CandidateID)
	if err != nil {
		s.recorder.NotificationFailed(string(domain.NotificationPaymentDisbursed))
		s.logger.Warn("failed to load payment candidate", "payment_id", paymentID, "err", err)
		return payment, nil
	}
	s.notifyCandidate(ctx, cand, domain.NotificationPaymentDisbursed,
		fmt.Sprintf("A payment of $%s from %s has been disbursed to you.", payment.Amount.String(), payment.ClientName),
		"/candidate/payments")
	return payment, nil
}
