package models

import "time"

type Supplier struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"not null;unique"`
	TaxID       string    `json:"tax_id" gorm:"null"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Email       string    `json:"email" gorm:"unique;not null"`
	PhoneNumber string    `json:"phone_number"`
	Invoices    []Invoice `json:"invoices,omitempty" gorm:"foreignKey:SupplierID"`
	CreatedAt   time.Time `json:"created_at"`
}
