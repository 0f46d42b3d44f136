package app

import (
	"github.com/shopspring/decimal"

	"stockbilling/internal/core"
)

// RegisterRequest is the input for creating an organization and its first
// admin user.
type RegisterRequest struct {
	Name             string
	Email            string
	Password         string
	OrganizationName string
}

// OrganizationRequest is the input for updating the organization profile.
type OrganizationRequest struct {
	Name      string
	Address   string
	Phone     string
	Mobile    string
	Email     string
	GSTNumber string
	PAN       string
	Banks     []core.BankAccount
}

// ProductRequest is the input for creating or updating a product.
type ProductRequest struct {
	Name        string
	Description string
	GSM         decimal.Decimal
	RollNo      string
	ReelNo      string
	Diameter    decimal.Decimal
	Weight      decimal.Decimal
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Unit        string
	Category    string
}

// CustomerRequest is the input for creating or updating a customer.
type CustomerRequest struct {
	Name        string
	CompanyName string
	GSTNumber   string
	Email       string
	Phone       string
	Address     core.Address
}
