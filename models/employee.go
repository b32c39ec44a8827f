package models

import "time"

type Employee struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	FirstName   string    `json:"first_name" gorm:"not null"`
	LastName    string    `json:"last_name" gorm:"not null"`
	DocumentID  string    `json:"document_id" gorm:"index:idx_employees_document_id,unique,where:document_id <> ''"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	Salaries    []Salary  `json:"salaries,omitempty" gorm:"foreignKey:EmployeeID"`
	CreatedAt   time.Time `json:"created_at"`
}
