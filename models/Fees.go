package models

import "github.com/shopspring/decimal"

type FeesPayable struct {
	LedgerNumber     int             `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	FeeCode          string          `json:"feeCode" gorm:"primaryKey;type:varchar(16)"`
	ChargeOption     string          `json:"chargeOption" gorm:"type:varchar(16)"`
	ChargePercentage decimal.Decimal `json:"chargePercentage" gorm:"type:decimal(10,2)"`
	CostCentreCode   string          `json:"costCentreCode" gorm:"type:varchar(16);not null"`
	AccountCode      string          `json:"accountCode" gorm:"type:varchar(16);not null"`
	DrAccountCode    string          `json:"drAccountCode" gorm:"type:varchar(16)"`
}

func (FeesPayable) TableName() string { return "a_fees_payable" }

type FeesReceivable struct {
	LedgerNumber     int             `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	FeeCode          string          `json:"feeCode" gorm:"primaryKey;type:varchar(16)"`
	ChargeOption     string          `json:"chargeOption" gorm:"type:varchar(16)"`
	ChargePercentage decimal.Decimal `json:"chargePercentage" gorm:"type:decimal(10,2)"`
	CostCentreCode   string          `json:"costCentreCode" gorm:"type:varchar(16);not null"`
	AccountCode      string          `json:"accountCode" gorm:"type:varchar(16);not null"`
	DrAccountCode    string          `json:"drAccountCode" gorm:"type:varchar(16)"`
}

func (FeesReceivable) TableName() string { return "a_fees_receivable" }
