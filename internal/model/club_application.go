package model

import "time"

// ApplicationStatus is the review state of a club application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// ClubApplication is a user's request to register a club and become a
// manager.  Approval promotes the applicant's role to manager.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – applying user.
//  ClubName    – name of the club being registered.
//  Description – what the club is about.
//  Contact     – contact info for the club.
//  Status      – review state (pending, approved, rejected).
//  CreatedAt   – creation timestamp.
//  ApprovedAt  – when the application was approved (null until then).
//  RejectedAt  – when the application was rejected (null until then).
type ClubApplication struct {
	ID          uint64            // club_applications.id
	UserID      uint64            // club_applications.user_id
	ClubName    string            // club_applications.club_name
	Description string            // club_applications.description
	Contact     string            // club_applications.contact
	Status      ApplicationStatus // club_applications.status
	CreatedAt   time.Time         // club_applications.created_at
	ApprovedAt  *time.Time        // club_applications.approved_at (nullable)
	RejectedAt  *time.Time        // club_applications.rejected_at (nullable)
}
