package hiring

import (
	"context"
	"fmt"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/lock"
)

func isContractClient(u domain.User, c domain.Contract) bool {
	return u.Role.IsClient() && u.OrganizationID == c.OrganizationID
}

func isContractCandidate(u domain.User, c domain.Contract) bool {
	return u.Role == domain.RoleCandidate && c.CandidateUserID != "" && u.ID == c.CandidateUserID
}

// SignContract records userID's signature. The client of the contract's
// organization signs first, then the candidate. A party signing out of turn
// gets an InvalidState error, anyone else an Authorization error
func (s *Service) SignContract(ctx context.Context, contractID, userID string, signature []byte) (domain.Contract, error) {
	if len(signature) == 0 {
		return domain.Contract{}, domain.Invalid("signature is required")
	}

	var (
		contract domain.Contract
		signer   domain.User
	)
	err := s.run(ctx, "sign_contract", func(ctx context.Context) error {
		var err error
		if signer, err = s.dir.User(ctx, userID); err != nil {
			return err
		}

		return s.locks.WithLock(ctx, lock.Key("contract", contractID), func(ctx context.Context) error {
			contract, err = save(ctx, s.repos.Contracts, "contract", contractID, func(c *domain.Contract) error {
				return s.applySignature(c, signer, signature)
			})
			return err
		})
	})
	if err != nil {
		return domain.Contract{}, err
	}

	s.recorder.Transition("contract", string(contract.Status))
	s.logger.Info("contract signed", "contract_id", contractID, "user_id", userID, "status", contract.Status)

	switch contract.Status {
	case domain.ContractPendingCandidate:
		cand, err := load(ctx, s.repos.Candidates, "candidate", contract.CandidateID)
		if err != nil {
			s.recorder.NotificationFailed(string(domain.NotificationContractAction))
			s.logger.Warn("failed to load contract candidate", "contract_id", contractID, "err", err)
			break
		}
		s.notifyCandidate(ctx, cand, domain.NotificationContractAction,
			fmt.Sprintf("%s has signed your contract for %s.", contract.ClientName, contract.JobTitle),
			"/candidate/contracts")
	case domain.ContractSigned:
		s.notifyClientAdmins(ctx, contract.OrganizationID, domain.NotificationContractAction,
			fmt.Sprintf("%s has signed the contract for %s. It's official!", contract.CandidateName, contract.JobTitle),
			"/client/contracts")
	}
	return contract, nil
}

func (s *Service) applySignature(c *domain.Contract, signer domain.User, signature []byte) error {
	client := isContractClient(signer, *c)
	candidate := isContractCandidate(signer, *c)
	if !client && !candidate {
		return domain.Unauthorized("user %s is not a party to contract %s", signer.ID, c.ID)
	}

	now := s.now()
	switch {
	case c.Status == domain.ContractPendingClient && client:
		c.ClientSignature = append([]byte(nil), signature...)
		c.ClientSignedDate = &now
		c.Status = domain.ContractPendingCandidate
	case c.Status == domain.ContractPendingCandidate && candidate:
		c.CandidateSignature = append([]byte(nil), signature...)
		c.CandidateSignedDate = &now
		c.Status = domain.ContractSigned
	default:
		return domain.InvalidState("contract %s is %s and cannot be signed by user %s", c.ID, c.Status, signer.ID)
	}
	return nil
}
