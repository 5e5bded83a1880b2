package models

const (
	CostCentreTypeLocal   = "Local"
	CostCentreTypeForeign = "Foreign"
)

// CostCentre carries its parent pointer directly; the root has a nil parent.
type CostCentre struct {
	LedgerNumber          int     `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	CostCentreCode        string  `json:"costCentreCode" gorm:"primaryKey;type:varchar(16)"`
	CostCentreToReportTo  *string `json:"costCentreToReportTo,omitempty" gorm:"type:varchar(16);index"`
	CostCentreName        string  `json:"costCentreName" gorm:"type:varchar(255)"`
	CostCentreType        string  `json:"costCentreType" gorm:"type:varchar(16);not null"`
	PostingCostCentreFlag bool    `json:"postingCostCentreFlag" gorm:"not null"`
	CostCentreActiveFlag  bool    `json:"costCentreActiveFlag" gorm:"not null"`
	SystemCostCentreFlag  bool    `json:"systemCostCentreFlag" gorm:"not null"`
	ModificationID        string  `json:"modificationId" gorm:"column:modification_id;type:varchar(36)"`
}

func (CostCentre) TableName() string { return "a_cost_centre" }

// ValidLedgerNumber links a partner ledger to the cost centre that receives its gifts.
type ValidLedgerNumber struct {
	LedgerNumber        int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	PartnerKey          int64  `json:"partnerKey" gorm:"primaryKey;autoIncrement:false"`
	CostCentreCode      string `json:"costCentreCode" gorm:"type:varchar(16);not null"`
	IltProcessingCentre int64  `json:"iltProcessingCentre"`
}

func (ValidLedgerNumber) TableName() string { return "a_valid_ledger_number" }
