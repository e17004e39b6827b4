package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"visa_slot_watcher/internal/domain/watchrequest"
	idb "visa_slot_watcher/internal/infra/database"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Custom application-level errors for the request service
var ErrRequestAlreadyExists = fmt.Errorf("an account with this unique id already exists")
var ErrValidation = errors.New("invalid watch request")

// ValidationError lists the offending fields with a human readable reason each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AddRequestInput is the submitted form. The binding tags are shared with gin's binder.
type AddRequestInput struct {
	Email           string `form:"email" json:"email" binding:"required,email"`
	Password        string `form:"password" json:"password" binding:"required"`
	UniqueID        string `form:"unique_id" json:"unique_id" binding:"required"`
	FirstName       string `form:"first_name" json:"first_name" binding:"required"`
	LastName        string `form:"last_name" json:"last_name" binding:"required"`
	AppointmentType string `form:"appointment_type" json:"appointment_type" binding:"required,oneof=new reschedule"`
	TargetMonthYear string `form:"target_month_year" json:"target_month_year" binding:"required"`
	TargetDayStart  int    `form:"target_day_start" json:"target_day_start" binding:"required,min=1,max=31"`
	TargetDayEnd    int    `form:"target_day_end" json:"target_day_end" binding:"omitempty,min=1,max=31"` // 0 = single day
}

// MonthChoice is one selectable target month.
type MonthChoice struct {
	Value string // YYYY-MM
	Label string // e.g. "July 2026"
}

type RequestService struct {
	repo     watchrequest.Repository
	choices  []MonthChoice
	validate *validator.Validate
	hashCost int
	now      func() time.Time
}

// NewRequestService builds the service; months are the first days of the selectable target months.
func NewRequestService(repo watchrequest.Repository, months []time.Time) *RequestService {
	v := validator.New()
	v.SetTagName("binding")

	choices := make([]MonthChoice, 0, len(months))
	for _, m := range months {
		choices = append(choices, MonthChoice{Value: m.Format("2006-01"), Label: m.Format("January 2006")})
	}
	return &RequestService{
		repo:     repo,
		choices:  choices,
		validate: v,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *RequestService) MonthChoices() []MonthChoice {
	return s.choices
}

// Validate checks the input the same way the web form does.
func (s *RequestService) Validate(in AddRequestInput) error {
	fields := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate watch request: %w", err)
		}
		for _, fe := range verrs {
			fields[fe.Field()] = describeRule(fe)
		}
	}
	if _, ok := fields["TargetMonthYear"]; !ok && !s.isChoice(in.TargetMonthYear) {
		fields["TargetMonthYear"] = "not a selectable month"
	}
	_, startBad := fields["TargetDayStart"]
	_, endBad := fields["TargetDayEnd"]
	if !startBad && !endBad && in.TargetDayEnd > 0 && in.TargetDayEnd < in.TargetDayStart {
		fields["TargetDayEnd"] = "must not be before the start day"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *RequestService) isChoice(value string) bool {
	for _, c := range s.choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "max":
		return "must be between 1 and 31"
	default:
		return "is invalid"
	}
}

// AddRequest validates and stores a new watch request. The password is stored as a bcrypt hash.
func (s *RequestService) AddRequest(ctx context.Context, in AddRequestInput) (*watchrequest.WatchRequest, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.UniqueID = strings.TrimSpace(in.UniqueID)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := s.Validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash account secret: %w", err)
	}

	var dayEnd sql.NullInt32
	if in.TargetDayEnd > 0 {
		dayEnd = sql.NullInt32{Int32: int32(in.TargetDayEnd), Valid: true}
	}

	req := &watchrequest.WatchRequest{
		Email:           in.Email,
		SecretHash:      string(hash),
		UniqueID:        in.UniqueID,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		AppointmentType: watchrequest.AppointmentType(in.AppointmentType),
		TargetMonthYear: in.TargetMonthYear,
		TargetDayStart:  in.TargetDayStart,
		TargetDayEnd:    dayEnd,
		LastChecked:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		if err == idb.ErrDuplicateUniqueID {
			return nil, ErrRequestAlreadyExists
		}
		return nil, fmt.Errorf("failed to create watch request in repository: %w", err)
	}
	return req, nil
}

func (s *RequestService) ListRequests(ctx context.Context) ([]*watchrequest.WatchRequest, error) {
	reqs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch requests: %w", err)
	}
	return reqs, nil
}

// DeleteRequest removes the request with the given id and returns it.
func (s *RequestService) DeleteRequest(ctx context.Context, id int64) (*watchrequest.WatchRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrWatchRequestNotFound {
			return nil, idb.ErrWatchRequestNotFound // Propagate specific error
		}
		return nil, fmt.Errorf("failed to get watch request for removal: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == idb.ErrWatchRequestNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete watch request: %w", err)
	}
	return req, nil
}

// DeleteByUniqueID removes the request carrying uniqueID.
func (s *RequestService) DeleteByUniqueID(ctx context.Context, uniqueID string) error {
	err := s.repo.DeleteByUniqueID(ctx, strings.TrimSpace(uniqueID))
	if err != nil && err != idb.ErrWatchRequestNotFound {
		return fmt.Errorf("failed to delete watch request %q: %w", uniqueID, err)
	}
	return err
}
