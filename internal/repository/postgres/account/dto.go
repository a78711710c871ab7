package account

type Filter struct {
	SiteID        *string
	EmployeesOnly bool
	Code          *string
}
