package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"daily-check/internal/allocator"
	"daily-check/internal/database"
	"daily-check/internal/utils"
)

// MaxNoteLength is the longest note accepted, in characters.
const MaxNoteLength = 500

var (
	ErrFutureDate      = errors.New("only past dates can be recorded")
	ErrUnknownActivity = errors.New("unknown activity")
	ErrNoteTooLong     = fmt.Errorf("note is longer than %d characters", MaxNoteLength)
)

// Form is the in-progress entry for one date. Proportions is only ever
// replaced by the result of allocator.ApplyEdit or a loaded record.
type Form struct {
	Date        string
	Activities  [3]string
	Proportions allocator.Triple
	Note        string
	// Existing is set when the form was seeded from a stored record.
	Existing    bool
}

// Record converts the form into the row the store persists.
func (f Form) Record() database.ActivityRecord {
	return database.ActivityRecord{
		Date:        f.Date,
		Activities:  f.Activities,
		Proportions: f.Proportions,
		Note:        f.Note,
	}
}

type FormService struct {
	repository *database.Repository
	clock      *clock
	logger     *zap.Logger
}

func NewFormService(repo *database.Repository, c *clock, logger *zap.Logger) *FormService {
	return &FormService{
		repository: repo,
		clock:      c,
		logger:     logger,
	}
}

// Reset returns the default form for date.
func (fs *FormService) Reset(date string) Form {
	return Form{
		Date:        date,
		Activities:  [3]string{utils.Activities[0], utils.Activities[1], utils.Activities[2]},
		Proportions: allocator.Default,
	}
}

// DefaultDate is the date a new form opens on: yesterday.
func (fs *FormService) DefaultDate() string {
	return utils.Yesterday(fs.clock.now(), fs.clock.loc)
}

// CheckDate validates date and rejects today or anything later.
func (fs *FormService) CheckDate(date string) (string, error) {
	date, err := utils.ParseDate(date)
	if err != nil {
		return "", err
	}
	if date > fs.DefaultDate() {
		return "", fmt.Errorf("%s: %w", date, ErrFutureDate)
	}
	return date, nil
}

// Open seeds a form from the record stored for date, or from the defaults
// when there is none.
func (fs *FormService) Open(date string) (Form, error) {
	date, err := fs.CheckDate(date)
	if err != nil {
		return Form{}, err
	}

	rec, err := fs.repository.GetRecord(date)
	if errors.Is(err, database.ErrNotFound) {
		return fs.Reset(date), nil
	}
	if err != nil {
		return Form{}, err
	}

	triple, err := allocator.FromProportions(rec.Proportions[0], rec.Proportions[1], rec.Proportions[2])
	if err != nil {
		return Form{}, fmt.Errorf("stored record %s: %w", date, err)
	}

	return Form{
		Date:        rec.Date,
		Activities:  rec.Activities,
		Proportions: triple,
		Note:        rec.Note,
		Existing:    true,
	}, nil
}

// Edit sets the proportion of an editable slot and redistributes the rest.
func (fs *FormService) Edit(f Form, slot, value int) (Form, error) {
	triple, err := allocator.ApplyEdit(f.Proportions, slot, value)
	if err != nil {
		return f, err
	}
	fs.logger.Debug("proportion edited",
		zap.String("date", f.Date),
		zap.Int("slot", slot),
		zap.Int("value", value),
		zap.Ints("triple", triple[:]),
	)
	f.Proportions = triple
	return f, nil
}

// Adjust moves an editable slot by delta.
func (fs *FormService) Adjust(f Form, slot, delta int) (Form, error) {
	if !allocator.Editable(slot) {
		return fs.Edit(f, slot, 0)
	}
	return fs.Edit(f, slot, f.Proportions[slot]+delta)
}

// SetActivity labels a slot. The same activity may be used in several slots.
func (fs *FormService) SetActivity(f Form, slot int, name string) (Form, error) {
	if slot < 0 || slot >= allocator.Slots {
		return f, &allocator.InvalidSlotError{Slot: slot}
	}
	if utils.ActivityIndex(name) < 0 {
		return f, fmt.Errorf("%q: %w", name, ErrUnknownActivity)
	}
	f.Activities[slot] = name
	return f, nil
}

// SetNote stores a trimmed note of at most MaxNoteLength characters.
func (fs *FormService) SetNote(f Form, note string) (Form, error) {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return f, ErrNoteTooLong
	}
	f.Note = note
	return f, nil
}

// Save upserts the form. A blank note keeps the note already stored for
// the date.
func (fs *FormService) Save(f Form) (*database.ActivityRecord, error) {
	date, err := fs.CheckDate(f.Date)
	if err != nil {
		return nil, err
	}
	f.Date = date

	if err := f.Proportions.Validate(); err != nil {
		return nil, err
	}
	for i, name := range f.Activities {
		if utils.ActivityIndex(name) < 0 {
			return nil, fmt.Errorf("slot %d %q: %w", i, name, ErrUnknownActivity)
		}
	}

	if strings.TrimSpace(f.Note) == "" {
		existing, err := fs.repository.GetRecord(date)
		switch {
		case err == nil:
			f.Note = existing.Note
		case !errors.Is(err, database.ErrNotFound):
			return nil, err
		}
	}

	rec := f.Record()
	if err := fs.repository.SaveRecord(rec); err != nil {
		return nil, err
	}

	fs.logger.Info("💾 day saved",
		zap.String("date", rec.Date),
		zap.Strings("activities", rec.Activities[:]),
		zap.Ints("proportions", rec.Proportions[:]),
	)
	return &rec, nil
}
