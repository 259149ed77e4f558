package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dts-gxu/JobTracker/internal/models"
)

func TestCreate_Defaults(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	// date omitted: falls back to today; status omitted: default stage
	app, err := apps.Create(uid, ApplicationInput{
		CompanyName:  "Acme",
		PositionName: "Engineer",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	today := time.Now().Format(models.DateLayout)
	if got := app.ApplyDate.Format(models.DateLayout); got != today {
		t.Errorf("ApplyDate = %s, want today %s", got, today)
	}
	if app.Status != models.DefaultStatus {
		t.Errorf("Status = %q, want default %q", app.Status, models.DefaultStatus)
	}

	// unparsable date also falls back to today, deliberately
	app2, err := apps.Create(uid, ApplicationInput{
		CompanyName:  "Globex",
		PositionName: "Engineer",
		ApplyDate:    "14/03/2026",
	})
	if err != nil {
		t.Fatalf("Create() with bad date error = %v", err)
	}
	if got := app2.ApplyDate.Format(models.DateLayout); got != today {
		t.Errorf("ApplyDate with bad input = %s, want today %s", got, today)
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	testCases := []ApplicationInput{
		{PositionName: "Engineer"},
		{CompanyName: "Acme"},
		{},
	}
	for i, in := range testCases {
		_, err := apps.Create(uid, in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("case %d: error = %v, want ValidationError", i, err)
		}
	}
}

func TestListForUser_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	aliceApp, err := apps.Create(alice, ApplicationInput{CompanyName: "Acme", PositionName: "Engineer"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := apps.Create(bob, ApplicationInput{CompanyName: "Globex", PositionName: "Analyst"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := apps.ListForUser(bob, "", "")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListForUser(bob) returned %d records, want 1", len(got))
	}
	if got[0].CompanyName != "Globex" {
		t.Errorf("ListForUser(bob) returned %q, want only bob's records", got[0].CompanyName)
	}

	// bob cannot see alice's record through Get either
	if _, err := apps.Get(bob, aliceApp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(bob, alice's id) error = %v, want ErrNotFound", err)
	}
}

func TestListForUser_FilterSearchOrder(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	seed := []ApplicationInput{
		{CompanyName: "Acme", PositionName: "Backend Engineer", Status: string(models.StatusApplied)},
		{CompanyName: "Globex", PositionName: "Data Analyst", Status: string(models.StatusOffer)},
		{CompanyName: "Initech", PositionName: "Backend Engineer", Status: string(models.StatusApplied)},
	}
	for _, in := range seed {
		if _, err := apps.Create(uid, in); err != nil {
			t.Fatalf("Create(%s) error = %v", in.CompanyName, err)
		}
	}

	// most recent first
	all, err := apps.ListForUser(uid, "", "")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].CompanyName != "Initech" || all[2].CompanyName != "Acme" {
		t.Errorf("order = [%s %s %s], want most recent first",
			all[0].CompanyName, all[1].CompanyName, all[2].CompanyName)
	}

	// exact status match
	offers, err := apps.ListForUser(uid, string(models.StatusOffer), "")
	if err != nil {
		t.Fatalf("ListForUser(status) error = %v", err)
	}
	if len(offers) != 1 || offers[0].CompanyName != "Globex" {
		t.Errorf("status filter returned %d records, want the one offer", len(offers))
	}

	// substring match on company OR position
	backend, err := apps.ListForUser(uid, "", "Backend")
	if err != nil {
		t.Fatalf("ListForUser(search) error = %v", err)
	}
	if len(backend) != 2 {
		t.Errorf("search 'Backend' returned %d records, want 2", len(backend))
	}
	glo, err := apps.ListForUser(uid, "", "lobe")
	if err != nil {
		t.Fatalf("ListForUser(search) error = %v", err)
	}
	if len(glo) != 1 || glo[0].CompanyName != "Globex" {
		t.Errorf("search 'lobe' returned %d records, want Globex only", len(glo))
	}
}

func TestListForUser_UnknownStatusFilterMatchesNothing(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	if _, err := apps.Create(uid, ApplicationInput{CompanyName: "Acme", PositionName: "Engineer"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// a filter value outside the status vocabulary must not fall back to
	// listing everything
	got, err := apps.ListForUser(uid, "bogus_status", "")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown status filter returned %d records, want 0", len(got))
	}
}

func TestUpdate_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	created, err := apps.Create(uid, ApplicationInput{CompanyName: "Acme", PositionName: "Engineer"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	min, max := 18, 30
	updated, err := apps.Update(uid, created.ID, ApplicationInput{
		CompanyName:   "Acme Corp",
		PositionName:  "Senior Engineer",
		ApplyDate:     "2026-08-01",
		Status:        string(models.StatusSecondInterview),
		Notes:         "on-site round",
		SalaryMin:     &min,
		SalaryMax:     &max,
		WorkLocation:  "Nanning",
		ApplyChannel:  string(models.ChannelReferral),
		Referrer:      "Wang",
		InterviewTime: "2026-08-20T14:30",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := apps.Get(uid, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CompanyName != "Acme Corp" || got.PositionName != "Senior Engineer" {
		t.Errorf("name fields = %q/%q", got.CompanyName, got.PositionName)
	}
	if got.ApplyDate.Format(models.DateLayout) != "2026-08-01" {
		t.Errorf("ApplyDate = %s, want 2026-08-01", got.ApplyDate.Format(models.DateLayout))
	}
	if got.Status != models.StatusSecondInterview {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusSecondInterview)
	}
	if got.SalaryRange() != "18-30K" {
		t.Errorf("SalaryRange() = %q, want 18-30K", got.SalaryRange())
	}
	if got.ApplyChannel != models.ChannelReferral || got.Referrer != "Wang" {
		t.Errorf("channel/referrer = %q/%q", got.ApplyChannel, got.Referrer)
	}
	if got.InterviewDisplay() != "2026-08-20 14:30" {
		t.Errorf("InterviewDisplay() = %q, want 2026-08-20 14:30", got.InterviewDisplay())
	}
	if got.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("UpdatedAt not refreshed on update")
	}
}

func TestUpdate_Validation(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	created, err := apps.Create(uid, ApplicationInput{CompanyName: "Acme", PositionName: "Engineer"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	valid := ApplicationInput{
		CompanyName:  "Acme",
		PositionName: "Engineer",
		ApplyDate:    "2026-08-01",
		Status:       string(models.StatusApplied),
	}

	testCases := []struct {
		name   string
		mutate func(*ApplicationInput)
	}{
		{"missing apply date", func(in *ApplicationInput) { in.ApplyDate = "" }},
		{"bad apply date", func(in *ApplicationInput) { in.ApplyDate = "01/08/2026" }},
		{"missing company", func(in *ApplicationInput) { in.CompanyName = "" }},
		{"unknown status", func(in *ApplicationInput) { in.Status = "ghosted" }},
		{"unknown channel", func(in *ApplicationInput) { in.ApplyChannel = "fax" }},
		{"bad interview time", func(in *ApplicationInput) { in.InterviewTime = "tomorrow" }},
	}
	for _, tc := range testCases {
		in := valid
		tc.mutate(&in)
		_, err := apps.Update(uid, created.ID, in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: error = %v, want ValidationError", tc.name, err)
		}
	}

	// the record is untouched after all the rejected updates
	got, err := apps.Get(uid, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.DefaultStatus {
		t.Errorf("record mutated by rejected update: status = %q", got.Status)
	}
}

func TestUpdate_NotOwned(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	created, err := apps.Create(alice, ApplicationInput{CompanyName: "Acme", PositionName: "Engineer"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = apps.Update(bob, created.ID, ApplicationInput{
		CompanyName:  "Evil",
		PositionName: "Takeover",
		ApplyDate:    "2026-08-01",
		Status:       string(models.StatusApplied),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update by non-owner error = %v, want ErrNotFound", err)
	}

	got, err := apps.Get(alice, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CompanyName != "Acme" {
		t.Error("non-owner update mutated the record")
	}
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	created, err := apps.Create(alice, ApplicationInput{CompanyName: "Acme", PositionName: "Engineer"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// non-owned delete leaves the store unchanged
	if _, err := apps.Delete(bob, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := apps.Get(alice, created.ID); err != nil {
		t.Fatalf("record should survive non-owner delete: %v", err)
	}

	deleted, err := apps.Delete(alice, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.CompanyName != "Acme" {
		t.Errorf("Delete() returned %q, want the removed record", deleted.CompanyName)
	}

	// removal is permanent and repeat deletes signal not-found
	list, err := apps.ListForUser(alice, "", "")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted record still listed (%d records)", len(list))
	}
	if _, err := apps.Delete(alice, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db, testBcryptCost)
	apps := NewApplicationStore(db)
	uid := registerTestUser(t, users, "alice")

	empty, err := apps.Stats(uid)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if empty.Total != 0 {
		t.Errorf("empty Total = %d, want 0", empty.Total)
	}
	if len(empty.ByStatus) != len(models.StatusOptions()) {
		t.Errorf("ByStatus has %d labels, want all %d even at zero",
			len(empty.ByStatus), len(models.StatusOptions()))
	}

	seed := []string{
		string(models.StatusApplied),
		string(models.StatusApplied),
		string(models.StatusOffer),
	}
	for i, st := range seed {
		_, err := apps.Create(uid, ApplicationInput{
			CompanyName:  "Co",
			PositionName: "Pos",
			Status:       st,
		})
		if err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
	}

	stats, err := apps.Stats(uid)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	list, err := apps.ListForUser(uid, "", "")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	// total always equals the unfiltered listing
	if stats.Total != len(list) {
		t.Errorf("Total = %d, want %d", stats.Total, len(list))
	}
	if stats.ByStatus[models.StatusApplied] != 2 {
		t.Errorf("ByStatus[applied] = %d, want 2", stats.ByStatus[models.StatusApplied])
	}
	if stats.ByStatus[models.StatusOffer] != 1 {
		t.Errorf("ByStatus[offer] = %d, want 1", stats.ByStatus[models.StatusOffer])
	}
	if stats.ByStatus[models.StatusPreparing] != 0 {
		t.Errorf("ByStatus[preparing] = %d, want 0", stats.ByStatus[models.StatusPreparing])
	}
}
