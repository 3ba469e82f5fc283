package model

import "time"

// PsReceive is the initial receipt of a parent-stock chick shipment.
type PsReceive struct {
	ID             string          `json:"id"`
	ShipmentNo     string          `json:"shipment_no"`
	Supplier       string          `json:"supplier"`
	Breed          string          `json:"breed"`
	ReceiveDate    time.Time       `json:"receive_date"`
	CompanyID      string          `json:"company_id"`
	Challan        HeadCount       `json:"challan"`
	Remarks        string          `json:"remarks"`
	ApprovalStatus string          `json:"approval_status"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ChickCounts    []PsChickCount  `json:"chick_counts"`
	LabTransfers   []PsLabTransfer `json:"lab_transfers"`
}

// PsChickCount is one counted box (or box group) of a shipment.
type PsChickCount struct {
	ID          string    `json:"id"`
	PsReceiveID string    `json:"ps_receive_id"`
	BoxLabel    string    `json:"box_label"`
	Count       HeadCount `json:"count"`
}

// PsLabTransfer records chicks pulled from a shipment for laboratory testing.
type PsLabTransfer struct {
	ID           string    `json:"id"`
	PsReceiveID  string    `json:"ps_receive_id"`
	LabName      string    `json:"lab_name"`
	Purpose      string    `json:"purpose"`
	TransferDate time.Time `json:"transfer_date"`
	Count        HeadCount `json:"count"`
}

// PsReceiveSummary holds the quantities derived from a PS receive's children.
type PsReceiveSummary struct {
	Challan   HeadCount `json:"challan"`
	Received  HeadCount `json:"received"`
	Lab       HeadCount `json:"lab"`
	Available HeadCount `json:"available"`
	Shortage  HeadCount `json:"shortage"`
	Excess    HeadCount `json:"excess"`
}

// Summary derives received, lab, available, shortage and excess quantities.
func (p *PsReceive) Summary() PsReceiveSummary {
	var received, lab HeadCount
	for _, c := range p.ChickCounts {
		received = received.Add(c.Count)
	}
	for _, l := range p.LabTransfers {
		lab = lab.Add(l.Count)
	}
	return PsReceiveSummary{
		Challan:   p.Challan,
		Received:  received,
		Lab:       lab,
		Available: received.Sub(lab),
		Shortage:  p.Challan.Sub(received).ClampZero(),
		Excess:    received.Sub(p.Challan).ClampZero(),
	}
}

// FirmReceive moves stock from a PS receive into a receiving company's custody.
type FirmReceive struct {
	ID             string    `json:"id"`
	PsReceiveID    string    `json:"ps_receive_id"`
	CompanyID      string    `json:"company_id"`
	ReceiveDate    time.Time `json:"receive_date"`
	Quantity       HeadCount `json:"quantity"`
	Remarks        string    `json:"remarks"`
	ApprovalStatus string    `json:"approval_status"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ShedReceive allocates part of a firm receive into a physical shed.
type ShedReceive struct {
	ID             string    `json:"id"`
	FirmReceiveID  string    `json:"firm_receive_id"`
	ShedID         string    `json:"shed_id"`
	ReceiveDate    time.Time `json:"receive_date"`
	Quantity       HeadCount `json:"quantity"`
	Remarks        string    `json:"remarks"`
	ApprovalStatus string    `json:"approval_status"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
