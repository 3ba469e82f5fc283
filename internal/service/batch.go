package service

import (
	"context"
	"strings"
	"time"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// BatchAssignService splits shed receives into tracked batches.
type BatchAssignService interface {
	Create(ctx context.Context, in *model.BatchAssign, actor model.Actor) (*model.BatchAssign, error)
	Get(ctx context.Context, id string) (*model.BatchAssign, error)
	List(ctx context.Context, shedReceiveID string, limit, offset int) (*ListResult[model.BatchAssign], error)
	Update(ctx context.Context, id string, in *model.BatchAssign, actor model.Actor) (*model.BatchAssign, error)
	Delete(ctx context.Context, id string) error
	// Balance returns the live head count of a batch.
	Balance(ctx context.Context, id string) (*model.BatchBalance, error)
}

type batchAssignService struct {
	repo         repository.BatchAssignRepository
	shedReceives repository.ShedReceiveRepository
	sheds        repository.ShedRepository
	gate         gate
	clock
}

func NewBatchAssignService(repo repository.BatchAssignRepository, shedReceives repository.ShedReceiveRepository, sheds repository.ShedRepository, sub Submitter) BatchAssignService {
	return &batchAssignService{
		repo:         repo,
		shedReceives: shedReceives,
		sheds:        sheds,
		gate:         gate{sub: sub, module: model.ModuleBatchAssign, set: repo.SetApprovalStatus, remove: repo.Delete},
		clock:        defaultClock(),
	}
}

func (s *batchAssignService) validate(ctx context.Context, b *model.BatchAssign, excludeID string) error {
	b.BatchNo = strings.TrimSpace(b.BatchNo)
	if err := required("shed_receive_id", b.ShedReceiveID); err != nil {
		return err
	}
	if err := required("batch_no", b.BatchNo); err != nil {
		return err
	}
	if err := requiredDate("assign_date", b.AssignDate); err != nil {
		return err
	}
	b.AssignDate = dateOnly(b.AssignDate)
	var err error
	if b.Quantity, err = headCount("quantity", b.Quantity); err != nil {
		return err
	}
	if b.Quantity.Total == 0 {
		return invalid("quantity", "must be positive")
	}

	sr, err := s.shedReceives.FindByID(ctx, b.ShedReceiveID)
	if repository.IsNoRows(err) {
		return invalid("shed_receive_id", "shed receive %s does not exist", b.ShedReceiveID)
	}
	if err != nil {
		return err
	}
	if !live(sr.ApprovalStatus) {
		return invalid("shed_receive_id", "shed receive is %s", sr.ApprovalStatus)
	}
	if b.ShedID == "" {
		b.ShedID = sr.ShedID
	}
	if b.ShedID != sr.ShedID {
		return invalid("shed_id", "must be the shed of the shed receive")
	}

	shed, err := s.sheds.FindByID(ctx, b.ShedID)
	if err != nil {
		return storeErr(err, "shed")
	}
	if b.Level < 1 || b.Level > shed.Levels {
		return invalid("level", "must be between 1 and %d", shed.Levels)
	}

	assigned, err := s.repo.SumByShedReceive(ctx, b.ShedReceiveID, excludeID)
	if err != nil {
		return err
	}
	if !assigned.Add(b.Quantity).Fits(sr.Quantity) {
		remaining := sr.Quantity.Sub(assigned).ClampZero()
		return invalid("quantity", "exceeds the shed receive quantity (remaining %d/%d)", remaining.Male, remaining.Female)
	}
	return nil
}

func (s *batchAssignService) Create(ctx context.Context, in *model.BatchAssign, actor model.Actor) (*model.BatchAssign, error) {
	if err := s.validate(ctx, in, ""); err != nil {
		return nil, err
	}
	b := *in
	b.ID = s.newID()
	b.ApprovalStatus = model.ApprovalPending
	b.CreatedBy = actor.UserID
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt

	out, err := s.repo.Create(ctx, &b)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	if out.ApprovalStatus, err = s.gate.created(ctx, out.ID, actor); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *batchAssignService) Get(ctx context.Context, id string) (*model.BatchAssign, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	return b, nil
}

func (s *batchAssignService) List(ctx context.Context, shedReceiveID string, limit, offset int) (*ListResult[model.BatchAssign], error) {
	res, err := s.repo.List(ctx, shedReceiveID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *batchAssignService) Update(ctx context.Context, id string, in *model.BatchAssign, actor model.Actor) (*model.BatchAssign, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	if err := ensureEditable("batch", cur.ApprovalStatus); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}

	bal, err := s.repo.Balance(ctx, id)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	bal.Assigned = in.Quantity
	bal.Compute()
	if bal.Live.Negative() {
		return nil, invalid("quantity", "would leave a negative live balance %d/%d", bal.Live.Male, bal.Live.Female)
	}

	b := *in
	b.ID = cur.ID
	b.ApprovalStatus = editStatus(cur.ApprovalStatus)
	b.CreatedBy = cur.CreatedBy
	b.CreatedAt = cur.CreatedAt
	b.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &b)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	if out.ApprovalStatus, err = s.gate.updated(ctx, out.ID, actor, cur.ApprovalStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *batchAssignService) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "batch")
	}
	if err := ensureEditable("batch", cur.ApprovalStatus); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "batch")
}

func (s *batchAssignService) Balance(ctx context.Context, id string) (*model.BatchBalance, error) {
	bal, err := s.repo.Balance(ctx, id)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	return bal, nil
}

// BirdTransferService moves birds between sheds and companies.
type BirdTransferService interface {
	Create(ctx context.Context, in *model.BirdTransfer, actor model.Actor) (*model.BirdTransfer, error)
	Get(ctx context.Context, id string) (*model.BirdTransfer, error)
	List(ctx context.Context, batchAssignID string, from, to time.Time, limit, offset int) (*ListResult[model.BirdTransfer], error)
	Update(ctx context.Context, id string, in *model.BirdTransfer, actor model.Actor) (*model.BirdTransfer, error)
	Delete(ctx context.Context, id string) error
}

type birdTransferService struct {
	repo    repository.BirdTransferRepository
	batches repository.BatchAssignRepository
	sheds   repository.ShedRepository
	gate    gate
	clock
}

func NewBirdTransferService(repo repository.BirdTransferRepository, batches repository.BatchAssignRepository, sheds repository.ShedRepository, sub Submitter) BirdTransferService {
	return &birdTransferService{
		repo:    repo,
		batches: batches,
		sheds:   sheds,
		gate:    gate{sub: sub, module: model.ModuleBirdTransfer, set: repo.SetApprovalStatus, remove: repo.Delete},
		clock:   defaultClock(),
	}
}

// validate derives net and deviation, fills the endpoints and checks the
// source balance. prev is the stored transfer on update.
func (s *birdTransferService) validate(ctx context.Context, t *model.BirdTransfer, prev *model.BirdTransfer) error {
	if err := required("batch_assign_id", t.BatchAssignID); err != nil {
		return err
	}
	if err := requiredDate("transfer_date", t.TransferDate); err != nil {
		return err
	}
	t.TransferDate = dateOnly(t.TransferDate)

	var err error
	for _, c := range []struct {
		field string
		h     *model.HeadCount
	}{
		{"recorded", &t.Recorded},
		{"mortality", &t.Mortality},
		{"excess", &t.Excess},
		{"shortage", &t.Shortage},
	} {
		if *c.h, err = headCount(c.field, *c.h); err != nil {
			return err
		}
	}
	if t.Recorded.Total == 0 {
		return invalid("recorded", "must be positive")
	}
	t.Derive()
	if t.Net.Negative() {
		return invalid("net", "mortality, excess and shortage exceed the recorded count")
	}

	src, err := s.batches.FindByID(ctx, t.BatchAssignID)
	if repository.IsNoRows(err) {
		return invalid("batch_assign_id", "batch %s does not exist", t.BatchAssignID)
	}
	if err != nil {
		return err
	}
	if !live(src.ApprovalStatus) {
		return invalid("batch_assign_id", "batch is %s", src.ApprovalStatus)
	}
	srcShed, err := s.sheds.FindByID(ctx, src.ShedID)
	if err != nil {
		return storeErr(err, "shed")
	}
	if t.FromShedID == "" {
		t.FromShedID = srcShed.ID
	}
	if t.FromCompanyID == "" {
		t.FromCompanyID = srcShed.CompanyID
	}
	if t.FromShedID != srcShed.ID || t.FromCompanyID != srcShed.CompanyID {
		return invalid("from_shed_id", "must be the shed of the source batch")
	}

	if err := s.destination(ctx, t); err != nil {
		return err
	}
	if t.ToShedID == t.FromShedID {
		return invalid("to_shed_id", "must differ from the source shed")
	}

	bal, err := s.batches.Balance(ctx, src.ID)
	if err != nil {
		return storeErr(err, "batch")
	}
	available := bal.Live
	if prev != nil && live(prev.ApprovalStatus) && prev.BatchAssignID == src.ID {
		available = available.Add(prev.Recorded)
	}
	if !t.Recorded.Fits(available) {
		return invalid("recorded", "exceeds the live balance %d/%d of the source batch", available.Male, available.Female)
	}
	return nil
}

// destination resolves the receiving shed and company, from the destination batch when one is given.
func (s *birdTransferService) destination(ctx context.Context, t *model.BirdTransfer) error {
	if t.ToBatchAssignID != nil && *t.ToBatchAssignID == "" {
		t.ToBatchAssignID = nil
	}
	if t.ToBatchAssignID != nil {
		if *t.ToBatchAssignID == t.BatchAssignID {
			return invalid("to_batch_assign_id", "must differ from the source batch")
		}
		dest, err := s.batches.FindByID(ctx, *t.ToBatchAssignID)
		if repository.IsNoRows(err) {
			return invalid("to_batch_assign_id", "batch %s does not exist", *t.ToBatchAssignID)
		}
		if err != nil {
			return err
		}
		if t.ToShedID == "" {
			t.ToShedID = dest.ShedID
		}
		if t.ToShedID != dest.ShedID {
			return invalid("to_shed_id", "must be the shed of the destination batch")
		}
	}
	if err := required("to_shed_id", t.ToShedID); err != nil {
		return err
	}
	shed, err := s.sheds.FindByID(ctx, t.ToShedID)
	if repository.IsNoRows(err) {
		return invalid("to_shed_id", "shed %s does not exist", t.ToShedID)
	}
	if err != nil {
		return err
	}
	if t.ToCompanyID == "" {
		t.ToCompanyID = shed.CompanyID
	}
	if t.ToCompanyID != shed.CompanyID {
		return invalid("to_company_id", "must own the destination shed")
	}
	return nil
}

// checkInflow refuses changes that would take back birds the destination batch no longer has.
func (s *birdTransferService) checkInflow(ctx context.Context, prev, next *model.BirdTransfer) error {
	if prev.ToBatchAssignID == nil || !live(prev.ApprovalStatus) {
		return nil
	}
	bal, err := s.batches.Balance(ctx, *prev.ToBatchAssignID)
	if err != nil {
		return storeErr(err, "batch")
	}
	left := bal.Live.Sub(prev.Net)
	if next != nil && next.ToBatchAssignID != nil && *next.ToBatchAssignID == *prev.ToBatchAssignID {
		left = left.Add(next.Net)
	}
	if left.Negative() {
		return invalid("net", "the destination batch has already used the transferred birds")
	}
	return nil
}

func (s *birdTransferService) Create(ctx context.Context, in *model.BirdTransfer, actor model.Actor) (*model.BirdTransfer, error) {
	if err := s.validate(ctx, in, nil); err != nil {
		return nil, err
	}
	t := *in
	t.ID = s.newID()
	t.ApprovalStatus = model.ApprovalPending
	t.CreatedBy = actor.UserID
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt

	out, err := s.repo.Create(ctx, &t)
	if err != nil {
		return nil, storeErr(err, "bird transfer")
	}
	if out.ApprovalStatus, err = s.gate.created(ctx, out.ID, actor); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *birdTransferService) Get(ctx context.Context, id string) (*model.BirdTransfer, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "bird transfer")
	}
	return t, nil
}

func (s *birdTransferService) List(ctx context.Context, batchAssignID string, from, to time.Time, limit, offset int) (*ListResult[model.BirdTransfer], error) {
	res, err := s.repo.List(ctx, batchAssignID, repository.DateRange{From: from, To: to}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *birdTransferService) Update(ctx context.Context, id string, in *model.BirdTransfer, actor model.Actor) (*model.BirdTransfer, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "bird transfer")
	}
	if err := ensureEditable("bird transfer", cur.ApprovalStatus); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, cur); err != nil {
		return nil, err
	}
	if err := s.checkInflow(ctx, cur, in); err != nil {
		return nil, err
	}

	t := *in
	t.ID = cur.ID
	t.ApprovalStatus = editStatus(cur.ApprovalStatus)
	t.CreatedBy = cur.CreatedBy
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &t)
	if err != nil {
		return nil, storeErr(err, "bird transfer")
	}
	if out.ApprovalStatus, err = s.gate.updated(ctx, out.ID, actor, cur.ApprovalStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *birdTransferService) Delete(ctx context.Context, id string) error {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "bird transfer")
	}
	if err := ensureEditable("bird transfer", cur.ApprovalStatus); err != nil {
		return err
	}
	if err := s.checkInflow(ctx, cur, nil); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "bird transfer")
}
