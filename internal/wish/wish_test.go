package wish

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPriorityRoundTrip(t *testing.T) {
	for _, p := range []Priority{PriorityHigh, PriorityNormal, PriorityLow} {
		if got := PriorityToBackend(PriorityToFrontend(p)); got != p {
			t.Fatalf("round trip %q = %q", p, got)
		}
	}
	for _, p := range []DisplayPriority{DisplayHigh, DisplayMedium, DisplayLow} {
		if got := PriorityToFrontend(PriorityToBackend(p)); got != p {
			t.Fatalf("round trip %q = %q", p, got)
		}
	}
	if got := PriorityToFrontend(PriorityNormal); got != DisplayMedium {
		t.Fatalf("NORMAL maps to %q, want Medium", got)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusNotStarted, StatusInProgress, StatusCompleted} {
		if got := StatusToBackend(StatusToFrontend(s)); got != s {
			t.Fatalf("round trip %q = %q", s, got)
		}
	}
	for _, s := range []DisplayStatus{DisplayNotStarted, DisplayInProgress, DisplayCompleted} {
		if got := StatusToFrontend(StatusToBackend(s)); got != s {
			t.Fatalf("round trip %q = %q", s, got)
		}
	}
}

func TestParsePriorityAndStatus(t *testing.T) {
	if p, err := ParsePriority("NORMAL"); err != nil || p != DisplayMedium {
		t.Fatalf("ParsePriority(NORMAL) = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
	if s, err := ParseStatus("in-progress"); err != nil || s != DisplayInProgress {
		t.Fatalf("ParseStatus(in-progress) = %q, %v", s, err)
	}
	if s, err := ParseStatus("done"); err != nil || s != DisplayCompleted {
		t.Fatalf("ParseStatus(done) = %q, %v", s, err)
	}
}

func TestSignupValidation(t *testing.T) {
	r := SignupForm{FirstName: " Al ", LastName: "Lovelace", Email: "not-an-email"}.Validate()
	want := map[string]string{
		FieldFirstName: "First name must be at least 3 characters",
		FieldEmail:     "Please enter a valid email",
	}
	if diff := cmp.Diff(want, r.Fields); diff != "" {
		t.Fatalf("signup fields mismatch (-want +got):\n%s", diff)
	}

	ok := SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com"}.Validate()
	if !ok.OK() {
		t.Fatalf("expected valid form, got %v", ok.Fields)
	}
}

func TestPasswordValidation(t *testing.T) {
	cases := []struct {
		name string
		form PasswordForm
		want map[string]string
	}{
		{"short", PasswordForm{"abc", "abc"}, map[string]string{FieldPassword: "Password must be at least 6 characters"}},
		{"long", PasswordForm{"abcdefghijklmnop", "abcdefghijklmnop"}, map[string]string{FieldPassword: "Password must be less than 15 characters"}},
		{"mismatch", PasswordForm{"secret1", "secret2"}, map[string]string{FieldConfirmPassword: "Passwords do not match"}},
		{"ok", PasswordForm{"secret1", "secret1"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.form.Validate().Fields
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateCode(t *testing.T) {
	if r := ValidateCode("12345"); r.OK() {
		t.Fatalf("5 digits should fail")
	}
	if r := ValidateCode("12a456"); r.OK() {
		t.Fatalf("non-digit should fail")
	}
	if r := ValidateCode("123456"); !r.OK() {
		t.Fatalf("6 digits should pass: %v", r.Fields)
	}
}

func TestWishFormInputDropsBlankSubtasks(t *testing.T) {
	f := NewWishForm()
	f.Title = "Run a marathon"
	f.Description = "42km"
	f.TargetDate = "2026-12-31"
	f.AddSubTask("  buy shoes ")
	f.AddSubTask("   ")
	f.AddSubTask("train")
	f.ToggleSubTask(2)

	if r := f.Validate(); !r.OK() {
		t.Fatalf("Validate: %v", r.Fields)
	}
	in, err := f.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	want := TaskInput{
		Title:       "Run a marathon",
		Description: "42km",
		Category:    DefaultCategory,
		Priority:    PriorityHigh,
		TargetDate:  "2026-12-31T00:00:00.000Z",
		Status:      StatusInProgress,
		SubTasks: []SubTask{
			{Description: "buy shoes"},
			{Description: "train", IsCompleted: true},
		},
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestWishFormRequiredFields(t *testing.T) {
	r := NewWishForm().Validate()
	for _, f := range []string{FieldTitle, FieldDescription, FieldTargetDate} {
		if r.Get(f) == "" {
			t.Fatalf("expected error for %s, got %v", f, r.Fields)
		}
	}
}

func TestFormFromTaskAndCategories(t *testing.T) {
	task := Task{
		ID:         "t1",
		Title:      "Visit Kyoto",
		Category:   "Travel",
		Priority:   PriorityLow,
		Status:     StatusNotStarted,
		TargetDate: "2027-04-01T00:00:00.000Z",
	}
	f := FormFromTask(task)
	if !f.Editing() || f.EditingID() != "t1" {
		t.Fatalf("expected editing form for t1")
	}
	if f.TargetDate != "2027-04-01" || f.Priority != DisplayLow || f.Status != DisplayNotStarted {
		t.Fatalf("unexpected prefill: %+v", f)
	}

	nf := NewWishForm()
	nf.ApplyCategories([]string{"Career", "Family"})
	if nf.Category != "Career" {
		t.Fatalf("category = %q, want first loaded", nf.Category)
	}
	hf := NewWishForm()
	hf.ApplyCategories([]string{"Career", "Health"})
	if hf.Category != DefaultCategory {
		t.Fatalf("category = %q, want default kept", hf.Category)
	}
}

func TestSummarizeRecentByUpdatedAt(t *testing.T) {
	tasks := []Task{
		{ID: "a", Status: StatusCompleted, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "b", Status: StatusInProgress, CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-03-01T00:00:00Z"},
		{ID: "c", Status: StatusCompleted, CreatedAt: "2026-02-01T00:00:00Z"},
		{ID: "d", CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: "e", CreatedAt: "2025-02-01T00:00:00Z"},
		{ID: "f", CreatedAt: "2025-03-01T00:00:00Z"},
	}
	s := Summarize(tasks, RecentLimit)
	if s.Total != 6 || s.Completed != 2 {
		t.Fatalf("Total=%d Completed=%d", s.Total, s.Completed)
	}
	var ids []string
	for _, r := range s.Recent {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"b", "c", "a", "f", "e"}, ids); diff != "" {
		t.Fatalf("recent order (-want +got):\n%s", diff)
	}
	if tasks[0].ID != "a" {
		t.Fatalf("input slice was reordered")
	}
}

func TestCategoryParentSentinel(t *testing.T) {
	if p := (Category{ParentName: NoParent}).Parent(); p != "" {
		t.Fatalf("Parent() = %q, want empty", p)
	}
	if p := (Category{ParentName: "Travel"}).Parent(); p != "Travel" {
		t.Fatalf("Parent() = %q", p)
	}
}

func TestUserInitials(t *testing.T) {
	u := User{FirstName: "ada", LastName: "lovelace"}
	if got := u.Initials(); got != "AL" {
		t.Fatalf("Initials() = %q", got)
	}
}

func TestSummarizeEmptyIsNotNil(t *testing.T) {
	for _, in := range [][]Task{nil, {}} {
		s := Summarize(in, RecentLimit)
		if s.Recent == nil {
			t.Fatalf("Summarize(%#v).Recent is nil, want empty slice", in)
		}
		if all := Summarize(in, -1).Recent; all == nil {
			t.Fatalf("Summarize(%#v, -1).Recent is nil, want empty slice", in)
		}
	}
}
