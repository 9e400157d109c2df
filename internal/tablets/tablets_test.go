package tablets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pquerna/otp"

	"hotels-sync/internal/models"
	"hotels-sync/internal/testkit"
)

func TestAuthenticate(t *testing.T) {
	db := testkit.OpenDB(t)
	testkit.Seed(t, db)
	ctx := context.Background()
	auth := &Authenticator{DB: db, Digits: otp.DigitsSix}

	code, err := Code(testkit.TabletGuid, testkit.Now, otp.DigitsSix)
	if err != nil {
		t.Fatalf("code: %v", err)
	}

	tablet, err := auth.Authenticate(ctx, testkit.TabletID, code, testkit.Now)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if tablet.ID != testkit.TabletID || len(tablet.Buildings) != 2 {
		t.Fatalf("unexpected tablet %+v", tablet)
	}

	_, err = auth.Authenticate(ctx, 99, code, testkit.Now)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}
	_, err = auth.Authenticate(ctx, testkit.TabletID, wrong, testkit.Now)
	if !errors.Is(err, ErrPermissionDenied) || !strings.Contains(err.Error(), "invalid password") {
		t.Fatalf("expected invalid password, got %v", err)
	}
}

func TestAuthenticateDisabledTablet(t *testing.T) {
	db := testkit.OpenDB(t)
	testkit.Seed(t, db)
	ctx := context.Background()
	auth := &Authenticator{DB: db, Digits: otp.DigitsSix}

	code, _ := Code(testkit.TabletGuid, testkit.Now, otp.DigitsSix)
	err := SetEnabled(ctx, db, testkit.TabletID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}

	_, err = auth.Authenticate(ctx, testkit.TabletID, code, testkit.Now)
	if !errors.Is(err, ErrPermissionDenied) || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled tablet to be denied, got %v", err)
	}

	err = SetEnabled(ctx, db, testkit.TabletID, true)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if _, err := auth.Authenticate(ctx, testkit.TabletID, code, testkit.Now); err != nil {
		t.Fatalf("re-enabled tablet denied: %v", err)
	}

	if err := SetEnabled(ctx, db, 99, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	db := testkit.OpenDB(t)
	testkit.Seed(t, db)
	ctx := context.Background()

	tablet, err := Create(ctx, db, "Floor 2", []uint{1, 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !tablet.Enabled || tablet.Guid.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("unexpected tablet %+v", tablet)
	}

	stored, err := Get(ctx, db, tablet.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Guid != tablet.Guid || len(stored.Buildings) != 2 {
		t.Fatalf("unexpected stored tablet %+v", stored)
	}

	_, err = Create(ctx, db, "Ghost", []uint{1, 42})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown building to fail, got %v", err)
	}
	if n := testkit.Count(t, db, &models.Tablet{}, "description = ?", "Ghost"); n != 0 {
		t.Fatalf("expected no tablet created, got %d", n)
	}
}
