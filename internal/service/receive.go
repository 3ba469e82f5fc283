package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// PsReceiveService records parent-stock shipments.
type PsReceiveService interface {
	Create(ctx context.Context, in *model.PsReceive, actor model.Actor) (*model.PsReceive, error)
	Get(ctx context.Context, id string) (*model.PsReceive, error)
	List(ctx context.Context, from, to time.Time, limit, offset int) (*ListResult[model.PsReceive], error)
	// Update replaces the receive and its children. Available stock may not
	// drop below what firm receives already took.
	Update(ctx context.Context, id string, in *model.PsReceive, actor model.Actor) (*model.PsReceive, error)
	Delete(ctx context.Context, id string) error
}

type psReceiveService struct {
	repo      repository.PsReceiveRepository
	firms     repository.FirmReceiveRepository
	companies repository.CompanyRepository
	gate      gate
	clock
}

func NewPsReceiveService(repo repository.PsReceiveRepository, firms repository.FirmReceiveRepository, companies repository.CompanyRepository, sub Submitter) PsReceiveService {
	return &psReceiveService{
		repo:      repo,
		firms:     firms,
		companies: companies,
		gate:      gate{sub: sub, module: model.ModulePsReceive, set: repo.SetApprovalStatus, remove: repo.Delete},
		clock:     defaultClock(),
	}
}

func (s *psReceiveService) validate(ctx context.Context, p *model.PsReceive) error {
	p.ShipmentNo = strings.TrimSpace(p.ShipmentNo)
	for _, f := range []struct{ name, value string }{
		{"shipment_no", p.ShipmentNo},
		{"supplier", p.Supplier},
		{"breed", p.Breed},
		{"company_id", p.CompanyID},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if err := requiredDate("receive_date", p.ReceiveDate); err != nil {
		return err
	}
	p.ReceiveDate = dateOnly(p.ReceiveDate)

	var err error
	if p.Challan, err = headCount("challan", p.Challan); err != nil {
		return err
	}
	if len(p.ChickCounts) == 0 {
		return invalid("chick_counts", "at least one chick count is required")
	}
	for i := range p.ChickCounts {
		c := &p.ChickCounts[i]
		field := fmt.Sprintf("chick_counts[%d]", i)
		if err := required(field+".box_label", c.BoxLabel); err != nil {
			return err
		}
		if c.Count, err = headCount(field+".count", c.Count); err != nil {
			return err
		}
	}
	for i := range p.LabTransfers {
		l := &p.LabTransfers[i]
		field := fmt.Sprintf("lab_transfers[%d]", i)
		if err := required(field+".lab_name", l.LabName); err != nil {
			return err
		}
		if l.TransferDate.IsZero() {
			l.TransferDate = p.ReceiveDate
		}
		l.TransferDate = dateOnly(l.TransferDate)
		if l.Count, err = headCount(field+".count", l.Count); err != nil {
			return err
		}
	}

	sum := p.Summary()
	if !sum.Lab.Fits(sum.Received) {
		return invalid("lab_transfers", "lab transfers %d/%d exceed received %d/%d",
			sum.Lab.Male, sum.Lab.Female, sum.Received.Male, sum.Received.Female)
	}

	if _, err := s.companies.FindByID(ctx, p.CompanyID); err != nil {
		if repository.IsNoRows(err) {
			return invalid("company_id", "company %s does not exist", p.CompanyID)
		}
		return err
	}
	return nil
}

// withChildIDs assigns ids to the children of p and links them to it.
func (s *psReceiveService) withChildIDs(p *model.PsReceive) {
	for i := range p.ChickCounts {
		p.ChickCounts[i].ID = s.newID()
		p.ChickCounts[i].PsReceiveID = p.ID
	}
	for i := range p.LabTransfers {
		p.LabTransfers[i].ID = s.newID()
		p.LabTransfers[i].PsReceiveID = p.ID
	}
}

func (s *psReceiveService) Create(ctx context.Context, in *model.PsReceive, actor model.Actor) (*model.PsReceive, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	p := *in
	p.ID = s.newID()
	p.ApprovalStatus = model.ApprovalPending
	p.CreatedBy = actor.UserID
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.withChildIDs(&p)

	out, err := s.repo.Create(ctx, &p)
	if err != nil {
		return nil, storeErr(err, "ps receive")
	}
	if out.ApprovalStatus, err = s.gate.created(ctx, out.ID, actor); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *psReceiveService) Get(ctx context.Context, id string) (*model.PsReceive, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "ps receive")
	}
	return p, nil
}

func (s *psReceiveService) List(ctx context.Context, from, to time.Time, limit, offset int) (*ListResult[model.PsReceive], error) {
	res, err := s.repo.List(ctx, repository.DateRange{From: from, To: to}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *psReceiveService) Update(ctx context.Context, id string, in *model.PsReceive, actor model.Actor) (*model.PsReceive, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "ps receive")
	}
	if err := ensureEditable("ps receive", cur.ApprovalStatus); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	taken, err := s.firms.SumByPsReceive(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if available := in.Summary().Available; !taken.Fits(available) {
		return nil, invalid("chick_counts", "available %d/%d would fall below %d/%d already sent to firms",
			available.Male, available.Female, taken.Male, taken.Female)
	}

	p := *in
	p.ID = cur.ID
	p.ApprovalStatus = editStatus(cur.ApprovalStatus)
	p.CreatedBy = cur.CreatedBy
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = s.now()
	s.withChildIDs(&p)

	out, err := s.repo.Update(ctx, &p)
	if err != nil {
		return nil, storeErr(err, "ps receive")
	}
	if out.ApprovalStatus, err = s.gate.updated(ctx, out.ID, actor, cur.ApprovalStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *psReceiveService) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "ps receive")
	}
	if err := ensureEditable("ps receive", cur.ApprovalStatus); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "ps receive")
}

// FirmReceiveService moves PS stock into a company's custody.
type FirmReceiveService interface {
	Create(ctx context.Context, in *model.FirmReceive, actor model.Actor) (*model.FirmReceive, error)
	Get(ctx context.Context, id string) (*model.FirmReceive, error)
	List(ctx context.Context, psReceiveID string, limit, offset int) (*ListResult[model.FirmReceive], error)
	Update(ctx context.Context, id string, in *model.FirmReceive, actor model.Actor) (*model.FirmReceive, error)
	Delete(ctx context.Context, id string) error
}

type firmReceiveService struct {
	repo      repository.FirmReceiveRepository
	ps        repository.PsReceiveRepository
	sheds     repository.ShedReceiveRepository
	companies repository.CompanyRepository
	gate      gate
	clock
}

func NewFirmReceiveService(repo repository.FirmReceiveRepository, ps repository.PsReceiveRepository, sheds repository.ShedReceiveRepository, companies repository.CompanyRepository, sub Submitter) FirmReceiveService {
	return &firmReceiveService{
		repo:      repo,
		ps:        ps,
		sheds:     sheds,
		companies: companies,
		gate:      gate{sub: sub, module: model.ModuleFirmReceive, set: repo.SetApprovalStatus, remove: repo.Delete},
		clock:     defaultClock(),
	}
}

// validate checks f against its PS receive. excludeID leaves f's stored row out of the sum.
func (s *firmReceiveService) validate(ctx context.Context, f *model.FirmReceive, excludeID string) error {
	if err := required("ps_receive_id", f.PsReceiveID); err != nil {
		return err
	}
	if err := required("company_id", f.CompanyID); err != nil {
		return err
	}
	if err := requiredDate("receive_date", f.ReceiveDate); err != nil {
		return err
	}
	f.ReceiveDate = dateOnly(f.ReceiveDate)
	var err error
	if f.Quantity, err = headCount("quantity", f.Quantity); err != nil {
		return err
	}
	if f.Quantity.Total == 0 {
		return invalid("quantity", "must be positive")
	}

	ps, err := s.ps.FindByID(ctx, f.PsReceiveID)
	if repository.IsNoRows(err) {
		return invalid("ps_receive_id", "ps receive %s does not exist", f.PsReceiveID)
	}
	if err != nil {
		return err
	}
	if !live(ps.ApprovalStatus) {
		return invalid("ps_receive_id", "ps receive is %s", ps.ApprovalStatus)
	}
	if _, err := s.companies.FindByID(ctx, f.CompanyID); err != nil {
		if repository.IsNoRows(err) {
			return invalid("company_id", "company %s does not exist", f.CompanyID)
		}
		return err
	}

	taken, err := s.repo.SumByPsReceive(ctx, f.PsReceiveID, excludeID)
	if err != nil {
		return err
	}
	available := ps.Summary().Available
	if !taken.Add(f.Quantity).Fits(available) {
		remaining := available.Sub(taken).ClampZero()
		return invalid("quantity", "exceeds available stock of the ps receive (remaining %d/%d)", remaining.Male, remaining.Female)
	}
	return nil
}

func (s *firmReceiveService) Create(ctx context.Context, in *model.FirmReceive, actor model.Actor) (*model.FirmReceive, error) {
	if err := s.validate(ctx, in, ""); err != nil {
		return nil, err
	}
	f := *in
	f.ID = s.newID()
	f.ApprovalStatus = model.ApprovalPending
	f.CreatedBy = actor.UserID
	f.CreatedAt = s.now()
	f.UpdatedAt = f.CreatedAt

	out, err := s.repo.Create(ctx, &f)
	if err != nil {
		return nil, storeErr(err, "firm receive")
	}
	if out.ApprovalStatus, err = s.gate.created(ctx, out.ID, actor); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *firmReceiveService) Get(ctx context.Context, id string) (*model.FirmReceive, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "firm receive")
	}
	return f, nil
}

func (s *firmReceiveService) List(ctx context.Context, psReceiveID string, limit, offset int) (*ListResult[model.FirmReceive], error) {
	res, err := s.repo.List(ctx, psReceiveID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *firmReceiveService) Update(ctx context.Context, id string, in *model.FirmReceive, actor model.Actor) (*model.FirmReceive, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "firm receive")
	}
	if err := ensureEditable("firm receive", cur.ApprovalStatus); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}
	allocated, err := s.sheds.SumByFirmReceive(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if !allocated.Fits(in.Quantity) {
		return nil, invalid("quantity", "must cover the %d/%d already allocated to sheds", allocated.Male, allocated.Female)
	}

	f := *in
	f.ID = cur.ID
	f.ApprovalStatus = editStatus(cur.ApprovalStatus)
	f.CreatedBy = cur.CreatedBy
	f.CreatedAt = cur.CreatedAt
	f.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &f)
	if err != nil {
		return nil, storeErr(err, "firm receive")
	}
	if out.ApprovalStatus, err = s.gate.updated(ctx, out.ID, actor, cur.ApprovalStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *firmReceiveService) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "firm receive")
	}
	if err := ensureEditable("firm receive", cur.ApprovalStatus); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "firm receive")
}

// ShedReceiveService allocates firm stock into sheds.
type ShedReceiveService interface {
	Create(ctx context.Context, in *model.ShedReceive, actor model.Actor) (*model.ShedReceive, error)
	Get(ctx context.Context, id string) (*model.ShedReceive, error)
	List(ctx context.Context, firmReceiveID string, limit, offset int) (*ListResult[model.ShedReceive], error)
	Update(ctx context.Context, id string, in *model.ShedReceive, actor model.Actor) (*model.ShedReceive, error)
	Delete(ctx context.Context, id string) error
}

type shedReceiveService struct {
	repo    repository.ShedReceiveRepository
	firms   repository.FirmReceiveRepository
	sheds   repository.ShedRepository
	batches repository.BatchAssignRepository
	gate    gate
	clock
}

func NewShedReceiveService(repo repository.ShedReceiveRepository, firms repository.FirmReceiveRepository, sheds repository.ShedRepository, batches repository.BatchAssignRepository, sub Submitter) ShedReceiveService {
	return &shedReceiveService{
		repo:    repo,
		firms:   firms,
		sheds:   sheds,
		batches: batches,
		gate:    gate{sub: sub, module: model.ModuleShedReceive, set: repo.SetApprovalStatus, remove: repo.Delete},
		clock:   defaultClock(),
	}
}

func (s *shedReceiveService) validate(ctx context.Context, r *model.ShedReceive, excludeID string) error {
	if err := required("firm_receive_id", r.FirmReceiveID); err != nil {
		return err
	}
	if err := required("shed_id", r.ShedID); err != nil {
		return err
	}
	if err := requiredDate("receive_date", r.ReceiveDate); err != nil {
		return err
	}
	r.ReceiveDate = dateOnly(r.ReceiveDate)
	var err error
	if r.Quantity, err = headCount("quantity", r.Quantity); err != nil {
		return err
	}
	if r.Quantity.Total == 0 {
		return invalid("quantity", "must be positive")
	}

	firm, err := s.firms.FindByID(ctx, r.FirmReceiveID)
	if repository.IsNoRows(err) {
		return invalid("firm_receive_id", "firm receive %s does not exist", r.FirmReceiveID)
	}
	if err != nil {
		return err
	}
	if !live(firm.ApprovalStatus) {
		return invalid("firm_receive_id", "firm receive is %s", firm.ApprovalStatus)
	}
	shed, err := s.sheds.FindByID(ctx, r.ShedID)
	if repository.IsNoRows(err) {
		return invalid("shed_id", "shed %s does not exist", r.ShedID)
	}
	if err != nil {
		return err
	}
	if shed.CompanyID != firm.CompanyID {
		return invalid("shed_id", "shed %s does not belong to the receiving company", shed.Code)
	}
	if r.Quantity.Total > shed.Capacity {
		return invalid("quantity", "total %d exceeds shed capacity %d", r.Quantity.Total, shed.Capacity)
	}

	allocated, err := s.repo.SumByFirmReceive(ctx, r.FirmReceiveID, excludeID)
	if err != nil {
		return err
	}
	if !allocated.Add(r.Quantity).Fits(firm.Quantity) {
		remaining := firm.Quantity.Sub(allocated).ClampZero()
		return invalid("quantity", "exceeds the firm receive quantity (remaining %d/%d)", remaining.Male, remaining.Female)
	}
	return nil
}

func (s *shedReceiveService) Create(ctx context.Context, in *model.ShedReceive, actor model.Actor) (*model.ShedReceive, error) {
	if err := s.validate(ctx, in, ""); err != nil {
		return nil, err
	}
	r := *in
	r.ID = s.newID()
	r.ApprovalStatus = model.ApprovalPending
	r.CreatedBy = actor.UserID
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt

	out, err := s.repo.Create(ctx, &r)
	if err != nil {
		return nil, storeErr(err, "shed receive")
	}
	if out.ApprovalStatus, err = s.gate.created(ctx, out.ID, actor); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *shedReceiveService) Get(ctx context.Context, id string) (*model.ShedReceive, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "shed receive")
	}
	return r, nil
}

func (s *shedReceiveService) List(ctx context.Context, firmReceiveID string, limit, offset int) (*ListResult[model.ShedReceive], error) {
	res, err := s.repo.List(ctx, firmReceiveID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *shedReceiveService) Update(ctx context.Context, id string, in *model.ShedReceive, actor model.Actor) (*model.ShedReceive, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "shed receive")
	}
	if err := ensureEditable("shed receive", cur.ApprovalStatus); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}
	batched, err := s.batches.SumByShedReceive(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if !batched.Fits(in.Quantity) {
		return nil, invalid("quantity", "must cover the %d/%d already assigned to batches", batched.Male, batched.Female)
	}

	r := *in
	r.ID = cur.ID
	r.ApprovalStatus = editStatus(cur.ApprovalStatus)
	r.CreatedBy = cur.CreatedBy
	r.CreatedAt = cur.CreatedAt
	r.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &r)
	if err != nil {
		return nil, storeErr(err, "shed receive")
	}
	if out.ApprovalStatus, err = s.gate.updated(ctx, out.ID, actor, cur.ApprovalStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *shedReceiveService) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "shed receive")
	}
	if err := ensureEditable("shed receive", cur.ApprovalStatus); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "shed receive")
}
