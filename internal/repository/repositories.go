package repository

import "github.com/honeycarbs/plugplayers/internal/domain"

// Repositories groups one typed collection per entity over a shared Store
type Repositories struct {
	Store         Store
	Users         *Collection[domain.User]
	Organizations *Collection[domain.Organization]
	Candidates    *Collection[domain.Candidate]
	Jobs          *Collection[domain.Job]
	Applications  *Collection[domain.Application]
	Interviews    *Collection[domain.Interview]
	Contracts     *Collection[domain.Contract]
	Payments      *Collection[domain.Payment]
	Notifications *Collection[domain.Notification]
	Shortlists    *Collection[domain.ShortlistRequest]
}

// New wires every collection onto store
func New(store Store) *Repositories {
	return &Repositories{
		Store:         store,
		Users:         NewCollection(store, KindUser, func(v domain.User) string { return v.ID }),
		Organizations: NewCollection(store, KindOrganization, func(v domain.Organization) string { return v.ID }),
		Candidates:    NewCollection(store, KindCandidate, func(v domain.Candidate) string { return v.ID }),
		Jobs:          NewCollection(store, KindJob, func(v domain.Job) string { return v.ID }),
		Applications:  NewCollection(store, KindApplication, func(v domain.Application) string { return v.ID }),
		Interviews:    NewCollection(store, KindInterview, func(v domain.Interview) string { return v.ID }),
		Contracts:     NewCollection(store, KindContract, func(v domain.Contract) string { return v.ID }),
		Payments:      NewCollection(store, KindPayment, func(v domain.Payment) string { return v.ID }),
		Notifications: NewCollection(store, KindNotification, func(v domain.Notification) string { return v.ID }),
		Shortlists:    NewCollection(store, KindShortlist, func(v domain.ShortlistRequest) string { return v.ID }),
	}
}
