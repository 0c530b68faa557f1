package models

import "time"

// Course is an academic program offered by the college.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Department  string    `json:"department"`
	Duration    string    `json:"duration"`
	Fees        int64     `json:"fees"`
	Eligibility string    `json:"eligibility"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StaffMember is a faculty or staff directory entry.
type StaffMember struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Designation  string    `json:"designation"`
	DepartmentID string    `json:"department_id"`
	EmployeeID   string    `json:"employee_id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Cabin        string    `json:"cabin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Event is a campus event announcement.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Notice is a published announcement shown to visitors.
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scholarship describes a financial-aid scheme.
type Scholarship struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	Amount      string    `json:"amount"`
	Eligibility string    `json:"eligibility"`
	Deadline    string    `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Department is an academic department managed by the head admin.
type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DepartmentData is a free-form content row owned by one department.
type DepartmentData struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DepartmentAccount is a login usable through the department panel.
type DepartmentAccount struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Setting is one key of the college_settings key/JSON-value store.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
