package models

// Category labels of the default vocabulary. The labels match the category names
// the downstream backend stores.
const (
	CategoryPets          = "Pets"
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryEducation     = "Education"
	CategoryHome          = "Home"
	CategorySalary        = "Salary"
	CategorySales         = "Sales"

	// CategoryOther is the sentinel label unknown remote categories are coerced to.
	CategoryOther = "Other"
)

// DateLayout is the backend's timestamp format (local time, no zone).
const DateLayout = "2006-01-02T15:04:05"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
