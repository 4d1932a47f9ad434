package models

import (
	"time"

	"github.com/helpdesk/backend/internal/domain/contract"
)

// ContractModel is the GORM model for contracts. The item summary is a single
// jsonb document; items are replaced wholesale on every update.
type ContractModel struct {
	TenantAggregateModel
	Title     string           `gorm:"type:varchar(255);not null"`
	StartDate time.Time        `gorm:"type:date;not null"`
	EndDate   time.Time        `gorm:"type:date;not null"`
	Summary   contract.Summary `gorm:"type:jsonb;serializer:json"`
	PDFURL    string           `gorm:"column:pdf_url;type:text"`
}

// TableName returns the table name for the model
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the model to a domain contract
func (m *ContractModel) ToDomain() *contract.Contract {
	c := &contract.Contract{
		Title:     m.Title,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Summary:   m.Summary,
		PDFURL:    m.PDFURL,
	}
	if c.Summary.Items == nil {
		c.Summary.Items = []contract.Item{}
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// ContractModelFromDomain creates a model from a domain contract
func ContractModelFromDomain(c *contract.Contract) *ContractModel {
	m := &ContractModel{
		Title:     c.Title,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Summary:   c.Summary,
		PDFURL:    c.PDFURL,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
