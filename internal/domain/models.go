package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewID returns a fresh entity identifier
func NewID() string {
	return uuid.NewString()
}

// Role is the access role of a user
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleClientAdmin  Role = "CLIENT_ADMIN"
	RoleClientMember Role = "CLIENT_MEMBER"
	RoleCandidate    Role = "CANDIDATE"
)

// IsAdmin reports whether the role is a platform admin
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsClient reports whether the role belongs to a client organization
func (r Role) IsClient() bool {
	return r == RoleClientAdmin || r == RoleClientMember
}

// User is an authenticated account on the marketplace
type User struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Email          string `json:"email" yaml:"email"`
	Role           Role   `json:"role" yaml:"role"`
	OrganizationID string `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
}

// SubscriptionStatus is the billing state of an organization
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionHold     SubscriptionStatus = "on-hold"
)

// Organization is a hiring client
type Organization struct {
	ID                 string             `json:"id" yaml:"id"`
	Name               string             `json:"name" yaml:"name"`
	Email              string             `json:"email,omitempty" yaml:"email,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus" yaml:"subscriptionStatus"`
	Address            string             `json:"address,omitempty" yaml:"address,omitempty"`
	Country            string             `json:"country,omitempty" yaml:"country,omitempty"`
	Industry           string             `json:"industry,omitempty" yaml:"industry,omitempty"`
	BusinessID         string             `json:"businessId,omitempty" yaml:"businessId,omitempty"`
	ContactPerson      string             `json:"contactPerson,omitempty" yaml:"contactPerson,omitempty"`
}

// JobStatus is the publication state of a job posting
type JobStatus string

const (
	JobOpen   JobStatus = "Open"
	JobClosed JobStatus = "Closed"
	JobDraft  JobStatus = "Draft"
)

// Job is a posting owned by an organization
type Job struct {
	ID                string    `json:"id" yaml:"id"`
	Title             string    `json:"title" yaml:"title"`
	OrganizationID    string    `json:"organizationId" yaml:"organizationId"`
	OrganizationName  string    `json:"organizationName" yaml:"organizationName"`
	Location          string    `json:"location" yaml:"location"`
	SalaryRange       string    `json:"salaryRange" yaml:"salaryRange"`
	Description       string    `json:"description" yaml:"description"`
	Status            JobStatus `json:"status" yaml:"status"`
	ApplicationsCount int       `json:"applicationsCount" yaml:"applicationsCount"`
}

// Candidate is a talent profile. UserID links the profile to its login account
type Candidate struct {
	ID           string   `json:"id" yaml:"id"`
	UserID       string   `json:"userId,omitempty" yaml:"userId,omitempty"`
	Name         string   `json:"name" yaml:"name"`
	Email        string   `json:"email" yaml:"email"`
	Skills       []string `json:"skills" yaml:"skills"`
	Experience   string   `json:"experience" yaml:"experience"`
	ExpectedRate string   `json:"expectedRate" yaml:"expectedRate"`
	ResumeURL    string   `json:"resumeUrl,omitempty" yaml:"resumeUrl,omitempty"`
	LinkedinURL  string   `json:"linkedinUrl,omitempty" yaml:"linkedinUrl,omitempty"`
}

// ApplicationStatus is the position of an application in the hiring funnel
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "Submitted"
	ApplicationShortlisted ApplicationStatus = "Shortlisted"
	ApplicationInterview   ApplicationStatus = "Interview"
	ApplicationOffer       ApplicationStatus = "Offer"
	ApplicationHired       ApplicationStatus = "Hired"
	ApplicationRejected    ApplicationStatus = "Rejected"
)

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationShortlisted, ApplicationInterview,
		ApplicationOffer, ApplicationHired, ApplicationRejected:
		return true
	}
	return false
}

// Application links a candidate to a job
type Application struct {
	ID          string            `json:"id" yaml:"id"`
	CandidateID string            `json:"candidateId" yaml:"candidateId"`
	JobID       string            `json:"jobId" yaml:"jobId"`
	Status      ApplicationStatus `json:"status" yaml:"status"`
	AppliedDate time.Time         `json:"appliedDate" yaml:"appliedDate"`
}

// InterviewPlatform is the video platform an interview runs on
type InterviewPlatform string

const (
	PlatformGoogleMeet InterviewPlatform = "Google Meet"
	PlatformZoom       InterviewPlatform = "Zoom"
	PlatformTeams      InterviewPlatform = "Microsoft Teams"
	PlatformOther      InterviewPlatform = "Other"
)

// Valid reports whether p is a supported platform
func (p InterviewPlatform) Valid() bool {
	switch p {
	case PlatformGoogleMeet, PlatformZoom, PlatformTeams, PlatformOther:
		return true
	}
	return false
}

// InterviewStatus is the state of a scheduled interview
type InterviewStatus string

const (
	InterviewScheduled           InterviewStatus = "Scheduled"
	InterviewCompleted           InterviewStatus = "Completed"
	InterviewCancelledByClient   InterviewStatus = "Cancelled by Client"
	InterviewRescheduleRequested InterviewStatus = "Reschedule Requested"
	InterviewDeclinedByCandidate InterviewStatus = "Declined by Candidate"
)

// Terminal reports whether no further transitions are allowed
func (s InterviewStatus) Terminal() bool {
	switch s {
	case InterviewCompleted, InterviewCancelledByClient, InterviewDeclinedByCandidate:
		return true
	}
	return false
}

// Active reports whether the interview still blocks a new one being scheduled
func (s InterviewStatus) Active() bool {
	return s == InterviewScheduled || s == InterviewRescheduleRequested
}

// InterviewDetails is the client-editable part of an interview
type InterviewDetails struct {
	DateTime    time.Time         `json:"dateTime" yaml:"dateTime"`
	Platform    InterviewPlatform `json:"platform" yaml:"platform"`
	MeetingLink string            `json:"meetingLink" yaml:"meetingLink"`
	Notes       string            `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Interview is a meeting scheduled for an application
type Interview struct {
	ID            string          `json:"id" yaml:"id"`
	ApplicationID string          `json:"applicationId" yaml:"applicationId"`
	Status        InterviewStatus `json:"status" yaml:"status"`
	InterviewDetails `yaml:",inline"`
}

// ContractStatus is the signing state of a contract
type ContractStatus string

const (
	ContractPendingClient    ContractStatus = "Pending Client Signature"
	ContractPendingCandidate ContractStatus = "Pending Candidate Signature"
	ContractSigned           ContractStatus = "Signed"
	ContractCancelled        ContractStatus = "Cancelled"
)

// Contract is the agreement generated when an application is hired
type Contract struct {
	ID                  string         `json:"id"`
	ApplicationID       string         `json:"applicationId"`
	OrganizationID      string         `json:"organizationId"`
	CandidateID         string         `json:"candidateId"`
	CandidateUserID     string         `json:"candidateUserId,omitempty"`
	JobTitle            string         `json:"jobTitle"`
	ClientName          string         `json:"clientName"`
	CandidateName       string         `json:"candidateName"`
	Content             string         `json:"content"`
	Status              ContractStatus `json:"status"`
	GeneratedDate       time.Time      `json:"generatedDate"`
	ClientSignature     []byte         `json:"clientSignature,omitempty"`
	ClientSignedDate    *time.Time     `json:"clientSignedDate,omitempty"`
	CandidateSignature  []byte         `json:"candidateSignature,omitempty"`
	CandidateSignedDate *time.Time     `json:"candidateSignedDate,omitempty"`
}

// PaymentStatus is the disbursement state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending Disbursement"
	PaymentDisbursed PaymentStatus = "Disbursed"
)

// Payment is money owed to a candidate under a signed contract
type Payment struct {
	ID               string          `json:"id"`
	ContractID       string          `json:"contractId"`
	OrganizationID   string          `json:"organizationId"`
	CandidateID      string          `json:"candidateId"`
	ClientName       string          `json:"clientName"`
	CandidateName    string          `json:"candidateName"`
	Amount           decimal.Decimal `json:"amount"`
	Notes            string          `json:"notes,omitempty"`
	PaymentDate      time.Time       `json:"paymentDate"`
	Status           PaymentStatus   `json:"status"`
	DisbursementDate *time.Time      `json:"disbursementDate,omitempty"`
}

// NotificationType classifies notifications for the inbox
type NotificationType string

const (
	NotificationNewApplication     NotificationType = "NEW_APPLICATION"
	NotificationInterviewScheduled NotificationType = "INTERVIEW_SCHEDULED"
	NotificationContractAction     NotificationType = "CONTRACT_ACTION"
	NotificationPaymentDisbursed   NotificationType = "PAYMENT_DISBURSED"
	NotificationShortlistFulfilled NotificationType = "SHORTLIST_FULFILLED"
)

// Notification is an inbox entry for one user
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Link      string           `json:"link"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ProjectCategory selects a team-builder template
type ProjectCategory string

const (
	CategorySaaS      ProjectCategory = "SaaS"
	CategoryECommerce ProjectCategory = "E-commerce"
	CategoryMobileApp ProjectCategory = "Mobile App"
	CategoryMarketing ProjectCategory = "Marketing Campaign"
)

// Valid reports whether c is a known category
func (c ProjectCategory) Valid() bool {
	switch c {
	case CategorySaaS, CategoryECommerce, CategoryMobileApp, CategoryMarketing:
		return true
	}
	return false
}

// ProjectDetails describes the project a client wants staffed
type ProjectDetails struct {
	Goal     string          `json:"goal" yaml:"goal"`
	Category ProjectCategory `json:"category" yaml:"category"`
	Timeline int             `json:"timeline" yaml:"timeline"` // weeks
	Budget   int             `json:"budget" yaml:"budget"`     // monthly
}

// TeamMember is one line of a requested team
type TeamMember struct {
	RoleID   string `json:"roleId" yaml:"roleId"`
	RoleName string `json:"roleName" yaml:"roleName"`
	Count    int    `json:"count" yaml:"count"`
}

// ShortlistStatus is the fulfillment state of a shortlist request
type ShortlistStatus string

const (
	ShortlistPending   ShortlistStatus = "Pending"
	ShortlistFulfilled ShortlistStatus = "Fulfilled"
)

// ShortlistRequest asks the platform to propose candidates for a team
type ShortlistRequest struct {
	ID                 string          `json:"id"`
	OrganizationID     string          `json:"organizationId"`
	OrganizationName   string          `json:"organizationName"`
	ProjectDetails     ProjectDetails  `json:"projectDetails"`
	RequestedTeam      []TeamMember    `json:"requestedTeam"`
	Status             ShortlistStatus `json:"status"`
	RequestedDate      time.Time       `json:"requestedDate"`
	AssignedCandidates []Candidate     `json:"assignedCandidates,omitempty"`
}
