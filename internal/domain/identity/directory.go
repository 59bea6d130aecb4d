package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/repository"
)

// Directory resolves users, organizations and candidate accounts
type Directory struct {
	repos *repository.Repositories
}

// NewDirectory creates a Directory over the shared repositories
func NewDirectory(repos *repository.Repositories) *Directory {
	return &Directory{repos: repos}
}

// User returns the user with id
func (d *Directory) User(ctx context.Context, id string) (domain.User, error) {
	u, err := d.repos.Users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, domain.NotFound("user", id)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("identity: load user: %w", err)
	}
	return u, nil
}

// Organization returns the organization with id
func (d *Directory) Organization(ctx context.Context, id string) (domain.Organization, error) {
	org, err := d.repos.Organizations.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Organization{}, domain.NotFound("organization", id)
	}
	if err != nil {
		return domain.Organization{}, fmt.Errorf("identity: load organization: %w", err)
	}
	return org, nil
}

// ClientAdmins lists the CLIENT_ADMIN users of an organization
func (d *Directory) ClientAdmins(ctx context.Context, orgID string) ([]domain.User, error) {
	users, err := d.repos.Users.List(ctx, func(u domain.User) bool {
		return u.Role == domain.RoleClientAdmin && u.OrganizationID == orgID
	})
	if err != nil {
		return nil, fmt.Errorf("identity: list client admins: %w", err)
	}
	return users, nil
}

// CandidateUser returns the login account linked to a candidate profile.
// ok is false when the candidate has no account
func (d *Directory) CandidateUser(ctx context.Context, candidate domain.Candidate) (domain.User, bool, error) {
	if candidate.UserID == "" {
		return domain.User{}, false, nil
	}
	u, err := d.repos.Users.Get(ctx, candidate.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("identity: load candidate user: %w", err)
	}
	return u, true, nil
}

// CandidateForUser returns the candidate profile owned by userID
func (d *Directory) CandidateForUser(ctx context.Context, userID string) (domain.Candidate, error) {
	c, ok, err := d.repos.Candidates.Find(ctx, func(c domain.Candidate) bool { return c.UserID == userID })
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("identity: find candidate: %w", err)
	}
	if !ok {
		return domain.Candidate{}, domain.NotFound("candidate for user", userID)
	}
	return c, nil
}

// RequireAdmin loads actorID and checks it is a platform admin
func (d *Directory) RequireAdmin(ctx context.Context, actorID string) (domain.User, error) {
	u, err := d.User(ctx, actorID)
	if err != nil {
		return domain.User{}, err
	}
	if u.Role != domain.RoleAdmin {
		return domain.User{}, domain.Unauthorized("user %s is not an admin", actorID)
	}
	return u, nil
}

// RequireOrgAccess loads actorID and checks it is an admin or a client of orgID
func (d *Directory) RequireOrgAccess(ctx context.Context, actorID, orgID string) (domain.User, error) {
	u, err := d.User(ctx, actorID)
	if err != nil {
		return domain.User{}, err
	}
	if CanActForOrg(u, orgID) {
		return u, nil
	}
	return domain.User{}, domain.Unauthorized("user %s cannot act for organization %s", actorID, orgID)
}

// CanActForOrg reports whether u may perform client actions for orgID
func CanActForOrg(u domain.User, orgID string) bool {
	if u.Role == domain.RoleAdmin {
		return true
	}
	return u.Role.IsClient() && u.OrganizationID == orgID
}
