package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/seqel-esports/repositories"
)

func TestEnsureSchool(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first, created, err := env.schools.EnsureSchool(ctx, "  Hillside College ")
	if err != nil || !created {
		t.Fatalf("EnsureSchool = %v created=%v", err, created)
	}
	if first.UID4 != 2000 || first.Name != "Hillside College" {
		t.Errorf("school = %+v, want uid 2000 outside the guest range", first)
	}

	again, created, err := env.schools.EnsureSchool(ctx, "Hillside College")
	if err != nil || created || again.ID != first.ID {
		t.Errorf("second EnsureSchool = %+v created=%v err=%v, want the existing row", again, created, err)
	}

	second, _, err := env.schools.EnsureSchool(ctx, "Lakeside")
	if err != nil || second.UID4 != 2001 {
		t.Errorf("next school = %+v err=%v, want uid 2001", second, err)
	}

	if _, _, err := env.schools.EnsureSchool(ctx, "   "); !errors.Is(err, ErrSchoolNameRequired) {
		t.Errorf("blank name error = %v", err)
	}
}

func TestEnsureSchoolRetriesUIDCollision(t *testing.T) {
	env := newTestEnv(t)
	env.db.failUIDInserts = 2

	school, _, err := env.schools.EnsureSchool(context.Background(), "Riverside")
	if err != nil {
		t.Fatalf("EnsureSchool: %v", err)
	}
	if school.UID4 == 0 {
		t.Error("school has no uid")
	}
	if env.tx.rollbacks != 2 || env.tx.commits != 1 {
		t.Errorf("rollbacks=%d commits=%d, want 2 and 1", env.tx.rollbacks, env.tx.commits)
	}
}

func TestEnsureSchoolGivesUpAfterRepeatedCollisions(t *testing.T) {
	env := newTestEnv(t)
	env.db.failUIDInserts = maxUIDAttempts

	_, _, err := env.schools.EnsureSchool(context.Background(), "Riverside")
	if !errors.Is(err, repositories.ErrUIDConflict) {
		t.Fatalf("error = %v, want wrapped ErrUIDConflict", err)
	}
	if len(env.db.schools) != 0 {
		t.Errorf("stored %d schools after failure", len(env.db.schools))
	}
}
