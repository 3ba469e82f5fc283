package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// batchRef loads a batch that flock records may be attached to.
func batchRef(ctx context.Context, batches repository.BatchAssignRepository, id string) (*model.BatchAssign, error) {
	if err := required("batch_assign_id", id); err != nil {
		return nil, err
	}
	b, err := batches.FindByID(ctx, id)
	if repository.IsNoRows(err) {
		return nil, invalid("batch_assign_id", "batch %s does not exist", id)
	}
	if err != nil {
		return nil, err
	}
	if !live(b.ApprovalStatus) {
		return nil, invalid("batch_assign_id", "batch is %s", b.ApprovalStatus)
	}
	return b, nil
}

// VaccineScheduleService plans and tracks vaccinations.
type VaccineScheduleService interface {
	Create(ctx context.Context, in *model.VaccineSchedule, actor model.Actor) (*model.VaccineSchedule, error)
	Get(ctx context.Context, id string) (*model.VaccineSchedule, error)
	List(ctx context.Context, batchAssignID string, limit, offset int) (*ListResult[model.VaccineSchedule], error)
	// Update replaces the stages. Stages keep their progress when their stage_no survives.
	Update(ctx context.Context, id string, in *model.VaccineSchedule) (*model.VaccineSchedule, error)
	Delete(ctx context.Context, id string) error
	CompleteStage(ctx context.Context, scheduleID, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error)
	SkipStage(ctx context.Context, scheduleID, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error)
	// Due lists pending stages scheduled between from and to.
	Due(ctx context.Context, from, to time.Time) ([]model.DueStage, error)
}

type vaccineScheduleService struct {
	repo    repository.VaccineScheduleRepository
	batches repository.BatchAssignRepository
	clock
}

func NewVaccineScheduleService(repo repository.VaccineScheduleRepository, batches repository.BatchAssignRepository) VaccineScheduleService {
	return &vaccineScheduleService{repo: repo, batches: batches, clock: defaultClock()}
}

func (s *vaccineScheduleService) validate(ctx context.Context, v *model.VaccineSchedule) error {
	if _, err := batchRef(ctx, s.batches, v.BatchAssignID); err != nil {
		return err
	}
	if err := required("title", v.Title); err != nil {
		return err
	}
	if err := requiredDate("start_date", v.StartDate); err != nil {
		return err
	}
	v.StartDate = dateOnly(v.StartDate)
	if len(v.Stages) == 0 {
		return invalid("stages", "at least one stage is required")
	}

	seen := make(map[int]bool, len(v.Stages))
	for i := range v.Stages {
		st := &v.Stages[i]
		field := fmt.Sprintf("stages[%d]", i)
		if st.StageNo <= 0 {
			return invalid(field+".stage_no", "must be positive")
		}
		if seen[st.StageNo] {
			return invalid(field+".stage_no", "duplicate stage number %d", st.StageNo)
		}
		seen[st.StageNo] = true
		if st.AgeDays < 0 {
			return invalid(field+".age_days", "must not be negative")
		}
		if err := required(field+".vaccine_name", st.VaccineName); err != nil {
			return err
		}
		if strings.TrimSpace(st.StageName) == "" {
			st.StageName = fmt.Sprintf("Stage %d", st.StageNo)
		}
		st.ScheduledDate = v.StartDate.AddDate(0, 0, st.AgeDays)
	}
	return nil
}

// prepareStages assigns ids and carries progress over from prev by stage number.
func (s *vaccineScheduleService) prepareStages(v *model.VaccineSchedule, prev []model.VaccineStage) {
	byNo := make(map[int]model.VaccineStage, len(prev))
	for _, st := range prev {
		byNo[st.StageNo] = st
	}
	for i := range v.Stages {
		st := &v.Stages[i]
		st.ScheduleID = v.ID
		old, ok := byNo[st.StageNo]
		if !ok {
			st.ID = s.newID()
			st.Status = model.StageStatusPending
			st.DoneAt, st.DoneBy = nil, nil
			continue
		}
		st.ID = old.ID
		st.Status = old.Status
		st.DoneAt = old.DoneAt
		st.DoneBy = old.DoneBy
		if st.Notes == "" {
			st.Notes = old.Notes
		}
	}
}

func (s *vaccineScheduleService) Create(ctx context.Context, in *model.VaccineSchedule, actor model.Actor) (*model.VaccineSchedule, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	v := *in
	v.ID = s.newID()
	v.CreatedBy = actor.UserID
	v.CreatedAt = s.now()
	v.UpdatedAt = v.CreatedAt
	s.prepareStages(&v, nil)

	out, err := s.repo.Create(ctx, &v)
	if err != nil {
		return nil, storeErr(err, "vaccine schedule")
	}
	return out, nil
}

func (s *vaccineScheduleService) Get(ctx context.Context, id string) (*model.VaccineSchedule, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "vaccine schedule")
	}
	return v, nil
}

func (s *vaccineScheduleService) List(ctx context.Context, batchAssignID string, limit, offset int) (*ListResult[model.VaccineSchedule], error) {
	res, err := s.repo.List(ctx, batchAssignID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *vaccineScheduleService) Update(ctx context.Context, id string, in *model.VaccineSchedule) (*model.VaccineSchedule, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "vaccine schedule")
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	v := *in
	v.ID = cur.ID
	v.CreatedBy = cur.CreatedBy
	v.CreatedAt = cur.CreatedAt
	v.UpdatedAt = s.now()
	s.prepareStages(&v, cur.Stages)

	out, err := s.repo.Update(ctx, &v)
	if err != nil {
		return nil, storeErr(err, "vaccine schedule")
	}
	return out, nil
}

func (s *vaccineScheduleService) Delete(ctx context.Context, id string) error {
	return storeErr(s.repo.Delete(ctx, id), "vaccine schedule")
}

func (s *vaccineScheduleService) CompleteStage(ctx context.Context, scheduleID, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error) {
	return s.finishStage(ctx, scheduleID, stageID, model.StageStatusDone, actor, notes)
}

func (s *vaccineScheduleService) SkipStage(ctx context.Context, scheduleID, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, invalid("notes", "a reason is required when skipping")
	}
	return s.finishStage(ctx, scheduleID, stageID, model.StageStatusSkipped, actor, notes)
}

func (s *vaccineScheduleService) finishStage(ctx context.Context, scheduleID, stageID, status string, actor model.Actor, notes string) (*model.VaccineStage, error) {
	st, err := s.repo.FindStage(ctx, scheduleID, stageID)
	if err != nil {
		return nil, storeErr(err, "vaccine stage")
	}
	if st.Status != model.StageStatusPending {
		return nil, fmt.Errorf("vaccine stage is already %s: %w", st.Status, ErrInvalidState)
	}
	out, err := s.repo.UpdateStageStatus(ctx, stageID, status, s.now(), actor.UserID, strings.TrimSpace(notes))
	if repository.IsNoRows(err) {
		// Lost a race with another caller.
		return nil, fmt.Errorf("vaccine stage is no longer pending: %w", ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *vaccineScheduleService) Due(ctx context.Context, from, to time.Time) ([]model.DueStage, error) {
	if from.IsZero() {
		from = dateOnly(s.now())
	}
	if to.IsZero() {
		to = from
	}
	if to.Before(from) {
		return nil, invalid("to", "must not be before from")
	}
	return s.repo.ListDue(ctx, repository.DateRange{From: from, To: to})
}

// EggClassificationService grades daily egg collections.
type EggClassificationService interface {
	Create(ctx context.Context, in *model.EggClassification, actor model.Actor) (*model.EggClassification, error)
	Get(ctx context.Context, id string) (*model.EggClassification, error)
	List(ctx context.Context, batchAssignID string, from, to time.Time, limit, offset int) (*ListResult[model.EggClassification], error)
	Update(ctx context.Context, id string, in *model.EggClassification) (*model.EggClassification, error)
	Delete(ctx context.Context, id string) error
}

type eggClassificationService struct {
	repo    repository.EggClassificationRepository
	batches repository.BatchAssignRepository
	clock
}

func NewEggClassificationService(repo repository.EggClassificationRepository, batches repository.BatchAssignRepository) EggClassificationService {
	return &eggClassificationService{repo: repo, batches: batches, clock: defaultClock()}
}

func (s *eggClassificationService) validate(ctx context.Context, e *model.EggClassification) error {
	if _, err := batchRef(ctx, s.batches, e.BatchAssignID); err != nil {
		return err
	}
	if err := requiredDate("classify_date", e.ClassifyDate); err != nil {
		return err
	}
	e.ClassifyDate = dateOnly(e.ClassifyDate)
	for _, c := range []struct {
		field string
		n     int
	}{
		{"total_eggs", e.TotalEggs},
		{"hatching", e.Hatching},
		{"commercial", e.Commercial},
		{"double_yolk", e.DoubleYolk},
		{"cracked", e.Cracked},
		{"dirty", e.Dirty},
		{"small", e.Small},
		{"rejected", e.Rejected},
	} {
		if c.n < 0 {
			return invalid(c.field, "must not be negative")
		}
	}
	if sum := e.CategorySum(); sum != e.TotalEggs {
		return invalid("total_eggs", "categories add up to %d, not %d", sum, e.TotalEggs)
	}
	return nil
}

func (s *eggClassificationService) Create(ctx context.Context, in *model.EggClassification, actor model.Actor) (*model.EggClassification, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	e := *in
	e.ID = s.newID()
	e.CreatedBy = actor.UserID
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt

	out, err := s.repo.Create(ctx, &e)
	if err != nil {
		return nil, storeErr(err, "egg classification")
	}
	return out, nil
}

func (s *eggClassificationService) Get(ctx context.Context, id string) (*model.EggClassification, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "egg classification")
	}
	return e, nil
}

func (s *eggClassificationService) List(ctx context.Context, batchAssignID string, from, to time.Time, limit, offset int) (*ListResult[model.EggClassification], error) {
	res, err := s.repo.List(ctx, batchAssignID, repository.DateRange{From: from, To: to}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *eggClassificationService) Update(ctx context.Context, id string, in *model.EggClassification) (*model.EggClassification, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "egg classification")
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	e := *in
	e.ID = cur.ID
	e.CreatedBy = cur.CreatedBy
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &e)
	if err != nil {
		return nil, storeErr(err, "egg classification")
	}
	return out, nil
}

func (s *eggClassificationService) Delete(ctx context.Context, id string) error {
	return storeErr(s.repo.Delete(ctx, id), "egg classification")
}

// DailyOperationService records daily husbandry logs.
type DailyOperationService interface {
	Create(ctx context.Context, in *model.DailyOperation, actor model.Actor) (*model.DailyOperation, error)
	Get(ctx context.Context, id string) (*model.DailyOperation, error)
	List(ctx context.Context, batchAssignID string, from, to time.Time, limit, offset int) (*ListResult[model.DailyOperation], error)
	Update(ctx context.Context, id string, in *model.DailyOperation) (*model.DailyOperation, error)
	Delete(ctx context.Context, id string) error
}

type dailyOperationService struct {
	repo    repository.DailyOperationRepository
	batches repository.BatchAssignRepository
	clock
}

func NewDailyOperationService(repo repository.DailyOperationRepository, batches repository.BatchAssignRepository) DailyOperationService {
	return &dailyOperationService{repo: repo, batches: batches, clock: defaultClock()}
}

// validate checks d against the batch live balance. prev is the stored log on update.
func (s *dailyOperationService) validate(ctx context.Context, d *model.DailyOperation, prev *model.DailyOperation) error {
	b, err := batchRef(ctx, s.batches, d.BatchAssignID)
	if err != nil {
		return err
	}
	if err := requiredDate("operation_date", d.OperationDate); err != nil {
		return err
	}
	d.OperationDate = dateOnly(d.OperationDate)
	if d.OperationDate.Before(b.AssignDate) {
		return invalid("operation_date", "is before the batch was assigned")
	}
	if d.Mortality, err = headCount("mortality", d.Mortality); err != nil {
		return err
	}
	if d.Culling, err = headCount("culling", d.Culling); err != nil {
		return err
	}
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"feed_kg", d.FeedKg},
		{"water_liters", d.WaterLiters},
		{"avg_body_weight_g", d.AvgBodyWeightG},
	} {
		if c.v < 0 {
			return invalid(c.field, "must not be negative")
		}
	}
	if d.EggsCollected < 0 {
		return invalid("eggs_collected", "must not be negative")
	}

	bal, err := s.batches.Balance(ctx, b.ID)
	if err != nil {
		return storeErr(err, "batch")
	}
	available := bal.Live
	if prev != nil && prev.BatchAssignID == b.ID {
		available = available.Add(prev.Mortality).Add(prev.Culling)
	}
	if loss := d.Mortality.Add(d.Culling); !loss.Fits(available) {
		return invalid("mortality", "mortality and culling %d/%d exceed the live balance %d/%d",
			loss.Male, loss.Female, available.Male, available.Female)
	}
	return nil
}

func (s *dailyOperationService) Create(ctx context.Context, in *model.DailyOperation, actor model.Actor) (*model.DailyOperation, error) {
	if err := s.validate(ctx, in, nil); err != nil {
		return nil, err
	}
	d := *in
	d.ID = s.newID()
	d.CreatedBy = actor.UserID
	d.CreatedAt = s.now()
	d.UpdatedAt = d.CreatedAt

	out, err := s.repo.Create(ctx, &d)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("batch already has a log for %s: %w", d.OperationDate.Format(time.DateOnly), ErrConflict)
		}
		return nil, storeErr(err, "daily operation")
	}
	return out, nil
}

func (s *dailyOperationService) Get(ctx context.Context, id string) (*model.DailyOperation, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "daily operation")
	}
	return d, nil
}

func (s *dailyOperationService) List(ctx context.Context, batchAssignID string, from, to time.Time, limit, offset int) (*ListResult[model.DailyOperation], error) {
	res, err := s.repo.List(ctx, batchAssignID, repository.DateRange{From: from, To: to}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *dailyOperationService) Update(ctx context.Context, id string, in *model.DailyOperation) (*model.DailyOperation, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "daily operation")
	}
	if err := s.validate(ctx, in, cur); err != nil {
		return nil, err
	}
	d := *in
	d.ID = cur.ID
	d.CreatedBy = cur.CreatedBy
	d.CreatedAt = cur.CreatedAt
	d.UpdatedAt = s.now()

	out, err := s.repo.Update(ctx, &d)
	if err != nil {
		return nil, storeErr(err, "daily operation")
	}
	return out, nil
}

func (s *dailyOperationService) Delete(ctx context.Context, id string) error {
	return storeErr(s.repo.Delete(ctx, id), "daily operation")
}
