package service

import (
	"marksentry/internal/model"
	"strconv"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// InvalidEntryReason is shown to the operator whenever an entry is rejected.
const InvalidEntryReason = "Please enter a 3-digit student code."

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("utf16len", hasUTF16Length)
	return v
}

// hasUTF16Length counts UTF-16 code units, the unit a browser's maxlength
// and string length use, so a character outside the BMP counts twice.
func hasUTF16Length(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(utf16.Encode([]rune(fl.Field().String()))) == n
}

// entry carries the add preconditions.
type entry struct {
	Code  string `validate:"utf16len=3"`
	Marks string `validate:"required"`
}

// AddResult reports the outcome of an add. A rejected entry is not an error:
// the caller decides how to show Reason.
type AddResult struct {
	OK     bool                `json:"ok"`
	Reason string              `json:"reason,omitempty"`
	Record model.StudentRecord `json:"record"`
}

// Form is the entry form of one session: the transient input fields plus the
// record store they feed.
type Form struct {
	mu      sync.Mutex
	prefix  string
	code    string
	marks   string
	section model.Section
	store   *RecordStore
}

// NewForm returns a form in its initial state. The section starts at B while
// a successful add resets it to A; both values are kept as observed.
func NewForm(prefix string) *Form {
	return &Form{
		prefix:  prefix,
		section: model.SectionB,
		store:   NewRecordStore(),
	}
}

// Validate checks the add preconditions without touching the form.
func Validate(code, marks string) AddResult {
	if err := validate.Struct(entry{Code: code, Marks: marks}); err != nil {
		return AddResult{Reason: InvalidEntryReason}
	}
	return AddResult{OK: true}
}

// AddRecord appends prefix+code / marks / section when marks is non-empty and
// code is exactly three UTF-16 code units long, then clears the transient
// fields.
func (f *Form) AddRecord(code, marks string, section model.Section) AddResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := Validate(code, marks)
	if !res.OK {
		return res
	}

	rec := model.StudentRecord{
		RollNumber: f.prefix + code,
		Marks:      marks,
		Section:    section,
	}
	f.store.Append(rec)

	f.code = ""
	f.marks = ""
	f.section = model.SectionA

	res.Record = rec
	return res
}

// SetFields records what the operator currently has typed.
func (f *Form) SetFields(code, marks string, section model.Section) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = code
	f.marks = marks
	f.section = section
}

func (f *Form) State() model.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.FormState{
		Prefix:  f.prefix,
		Code:    f.code,
		Marks:   f.marks,
		Section: f.section,
	}
}

func (f *Form) Records() []model.StudentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Records()
}

func (f *Form) Page(page, limit int) ([]model.StudentRecord, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Page(page, limit)
}

func (f *Form) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Len()
}
