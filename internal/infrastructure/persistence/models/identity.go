package models

import (
	"github.com/ecofoods/backend/internal/domain/identity"
)

// AdminModel is the persistence model for Admin
type AdminModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// ToDomain converts the persistence model to a domain Admin
func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Credentials:       identity.Credentials{Email: m.Email, PasswordHash: m.PasswordHash},
	}
}

// AdminModelFromDomain creates a persistence model from a domain Admin
func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	m := &AdminModel{
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}
