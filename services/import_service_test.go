package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestImportStudents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	if _, _, err := env.schools.EnsureSchool(ctx, "Existing High"); err != nil {
		t.Fatalf("EnsureSchool: %v", err)
	}

	csvData := "\ufeffFirst_Name,LAST_NAME,School,Cohurt,YearLevel\n" +
		"Ava,Smith,Existing High,high,9\n" +
		"Ben,Jones,New Primary,PRIMARY,\n" +
		"Cal,,New Primary,Primary,5\n" +
		"Dee,Brown,New Primary,primary school,4\n" +
		"Eve,White,Other,adult,\n" +
		"Fay,Green,Other,,7\n"

	res, err := env.imports.ImportStudents(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportStudents: %v", err)
	}
	if *res != (ImportResult{SchoolsCreated: 2, StudentsCreated: 4, RowsSkipped: 2}) {
		t.Errorf("result = %+v", *res)
	}

	students, _ := env.students.ListStudents(ctx, "")
	if len(students) != 4 {
		t.Fatalf("stored %d students, want 4", len(students))
	}
	wantCohorts := map[string]string{"Ava": "High", "Ben": "Primary", "Dee": "Primary", "Eve": "Adult"}
	for _, st := range students {
		if st.Cohort != wantCohorts[st.FirstName] {
			t.Errorf("%s cohort = %q, want %q", st.FirstName, st.Cohort, wantCohorts[st.FirstName])
		}
	}
	if students[0].FirstName != "Ava" || students[0].YearLevel == nil || *students[0].YearLevel != "9" {
		t.Errorf("first student = %+v", students[0])
	}
}

func TestImportStudentsIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	env.db.failUIDInserts = maxUIDAttempts

	csvData := "first_name,last_name,school,cohort\nAva,Smith,North,High\n"
	_, err := env.imports.ImportStudents(context.Background(), strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(env.db.schools) != 0 || len(env.db.students) != 0 {
		t.Errorf("partial import left %d schools %d students", len(env.db.schools), len(env.db.students))
	}
}

func TestImportStudentsRejectsBadFiles(t *testing.T) {
	env := newTestEnv(t)
	for name, data := range map[string]string{
		"empty":          "",
		"missing school": "first_name,last_name,cohort\nAva,Smith,High\n",
		"bad quoting":    "first_name,last_name,school,cohort\n\"Ava,Smith,North,High\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.imports.ImportStudents(context.Background(), strings.NewReader(data))
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error = %v, want validation failure", err)
			}
		})
	}
}
