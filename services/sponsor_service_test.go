package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/seqel-esports/models"
)

func TestSponsorsStoredLocally(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dir := t.TempDir()
	if err := env.settings.Set(ctx, models.SettingSponsorPath, dir); err != nil {
		t.Fatalf("Set: %v", err)
	}
	svc := NewSponsorService(nil, env.settingRepo, env.log)

	sp, err := svc.Upload(ctx, "image/png; charset=binary", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(sp.Key, "sponsors/") || !strings.HasSuffix(sp.Key, ".png") {
		t.Errorf("key = %q", sp.Key)
	}
	if sp.URL != SponsorURLPrefix+"/"+sp.Key {
		t.Errorf("url = %q", sp.URL)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Key != sp.Key {
		t.Errorf("List = %+v", list)
	}

	if err := svc.Delete(ctx, sp.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if list, _ := svc.List(ctx); len(list) != 0 {
		t.Errorf("List after delete = %+v", list)
	}
}

func TestSponsorRejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSponsorService(nil, env.settingRepo, env.log)

	_, err := svc.Upload(context.Background(), "application/pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, ErrUnsupportedContentType) {
		t.Errorf("error = %v, want ErrUnsupportedContentType", err)
	}
	if err := svc.Delete(context.Background(), "../../etc/passwd"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("delete outside sponsors error = %v", err)
	}
}
