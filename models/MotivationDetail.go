package models

// MotivationDetail routes gifts with a given motivation to an account and
// cost centre.
type MotivationDetail struct {
	LedgerNumber             int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	MotivationGroupCode      string `json:"motivationGroupCode" gorm:"primaryKey;type:varchar(16)"`
	MotivationDetailCode     string `json:"motivationDetailCode" gorm:"primaryKey;type:varchar(16)"`
	MotivationDetailDesc     string `json:"motivationDetailDesc" gorm:"type:varchar(255)"`
	AccountCode              string `json:"accountCode" gorm:"type:varchar(16);not null"`
	CostCentreCode           string `json:"costCentreCode" gorm:"type:varchar(16);not null"`
	TaxDeductibleAccountCode string `json:"taxDeductibleAccountCode" gorm:"type:varchar(16)"`
	MotivationStatus         bool   `json:"motivationStatus" gorm:"not null"`
}

func (MotivationDetail) TableName() string { return "a_motivation_detail" }
