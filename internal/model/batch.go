package model

import "time"

// BatchAssign subdivides a shed receive into a tracked batch on one shed level.
type BatchAssign struct {
	ID             string    `json:"id"`
	ShedReceiveID  string    `json:"shed_receive_id"`
	ShedID         string    `json:"shed_id"`
	Level          int       `json:"level"`
	BatchNo        string    `json:"batch_no"`
	AssignDate     time.Time `json:"assign_date"`
	Quantity       HeadCount `json:"quantity"`
	Remarks        string    `json:"remarks"`
	ApprovalStatus string    `json:"approval_status"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BatchBalance is the live head count of a batch and the movements behind it.
type BatchBalance struct {
	BatchAssignID  string    `json:"batch_assign_id"`
	Assigned       HeadCount `json:"assigned"`
	Mortality      HeadCount `json:"mortality"`
	Culling        HeadCount `json:"culling"`
	TransferredOut HeadCount `json:"transferred_out"`
	TransferredIn  HeadCount `json:"transferred_in"`
	Live           HeadCount `json:"live"`
}

// Compute sets Live from the other fields.
func (b *BatchBalance) Compute() {
	b.Live = b.Assigned.Sub(b.Mortality).Sub(b.Culling).Sub(b.TransferredOut).Add(b.TransferredIn)
}

// BirdTransfer moves birds out of a source batch to another company or shed.
//
// Recorded is the count dispatched. Mortality, Excess and Shortage are the
// discrepancies found on arrival; excess birds are returned to the source.
type BirdTransfer struct {
	ID              string    `json:"id"`
	BatchAssignID   string    `json:"batch_assign_id"`
	ToBatchAssignID *string   `json:"to_batch_assign_id,omitempty"`
	FromCompanyID   string    `json:"from_company_id"`
	FromShedID      string    `json:"from_shed_id"`
	ToCompanyID     string    `json:"to_company_id"`
	ToShedID        string    `json:"to_shed_id"`
	TransferDate    time.Time `json:"transfer_date"`
	Recorded        HeadCount `json:"recorded"`
	Mortality       HeadCount `json:"mortality"`
	Excess          HeadCount `json:"excess"`
	Shortage        HeadCount `json:"shortage"`
	Net             HeadCount `json:"net"`
	Deviation       HeadCount `json:"deviation"`
	Remarks         string    `json:"remarks"`
	ApprovalStatus  string    `json:"approval_status"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Derive computes Net = Recorded - Mortality - Excess - Shortage and Deviation = Recorded - Net.
func (t *BirdTransfer) Derive() {
	t.Net = t.Recorded.Sub(t.Mortality).Sub(t.Excess).Sub(t.Shortage)
	t.Deviation = t.Recorded.Sub(t.Net)
}
