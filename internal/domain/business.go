package domain

// Business is a bookable provider with a single owner.
type Business struct {
	ID          int64
	Name        string
	OwnerID     int64
	OwnerPhone  string
	WeeklyHours WeeklyHours
}

// IsOwner returns true if userID owns the business.
func (b *Business) IsOwner(userID int64) bool {
	return b.OwnerID == userID
}

// Service defines how long an appointment for it lasts.
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Active          bool
}

// IsBookable returns true if the service can be booked at businessID.
func (s *Service) IsBookable(businessID int64) bool {
	return s.Active && s.ServesBusiness(businessID)
}

// ServesBusiness returns true if the service belongs to businessID and has a duration.
// Existing appointments keep their service even after it is deactivated.
func (s *Service) ServesBusiness(businessID int64) bool {
	return s.BusinessID == businessID && s.DurationMinutes > 0
}
