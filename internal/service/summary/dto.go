package summary

import "time"

const (
	ScopeSite   = "site"
	ScopeGlobal = "global"
)

type Query struct {
	Range  string
	Date   *string
	SiteID *string
}

type Result struct {
	Range         string  `json:"range"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Scope         string  `json:"scope"`
	SiteID        *string `json:"site_id"`
	RuleLateAfter string  `json:"rule_late_after"`
	Employees     int     `json:"employees"`
	Totals        Totals  `json:"totals"`
	Series        []Day   `json:"series"`
	Detail        Detail  `json:"detail"`
}

type Totals struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}

type Day struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

type Detail struct {
	Date        string       `json:"date"`
	Employees   int          `json:"employees"`
	Present     int          `json:"present"`
	LateCount   int          `json:"late_count"`
	AbsentCount int          `json:"absent_count"`
	Absent      []AbsentItem `json:"absent"`
	Late        []LateItem   `json:"late"`
}

type AbsentItem struct {
	AccountID string  `json:"account_id"`
	Code      string  `json:"code"`
	SiteID    *string `json:"site_id"`
}

type LateItem struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
	Time      string `json:"time"`
}

type AbsentList struct {
	Date  string       `json:"date"`
	Count int          `json:"count"`
	Items []AbsentItem `json:"items"`
}

type DayActivity struct {
	Date    string `json:"date"`
	Entries int    `json:"entries"`
	Exits   int    `json:"exits"`
	Outside int    `json:"outside"`
}

// Dashboard is today's activity plus the trailing seven days. AccountID is
// set on the employee dashboard, Scope and Employees on the admin one.
type Dashboard struct {
	AccountID    *string       `json:"account_id,omitempty"`
	Scope        string        `json:"scope,omitempty"`
	SiteID       *string       `json:"site_id,omitempty"`
	Employees    *int          `json:"employees,omitempty"`
	EntriesToday int           `json:"entries_today"`
	ExitsToday   int           `json:"exits_today"`
	OutsideToday int           `json:"outside_today"`
	Series       []DayActivity `json:"series_7d"`
}

type MonthlyReport struct {
	Code            string       `json:"code"`
	Month           string       `json:"month"`
	TotalRecords    int          `json:"total_records"`
	DaysWithRecords int          `json:"days_with_records"`
	Entries         int          `json:"entries"`
	Exits           int          `json:"exits"`
	Items           []ReportItem `json:"items"`
}

type ReportItem struct {
	RecordID       string    `json:"record_id"`
	RecordedAt     time.Time `json:"recorded_at"`
	LocalDate      string    `json:"local_date"`
	LocalTime      string    `json:"local_time"`
	Kind           string    `json:"kind"`
	InsideGeofence *bool     `json:"inside_geofence"`
	Mode           string    `json:"mode"`
	AccountCode    string    `json:"account_code"`
	SiteName       string    `json:"site_name"`
}
