package registry

import (
	"context"
	"strings"
	"testing"

	"github.com/voxnote/voxnote/internal/transcribe"
)

type nullEngine struct{}

func (nullEngine) Transcribe(context.Context, string) (transcribe.Result, error) {
	return transcribe.Result{}, nil
}

func (nullEngine) Close() error { return nil }

func TestRegisterAndCreate(t *testing.T) {
	var gotConfig map[string]string
	Register("null", func(config map[string]string) (transcribe.Engine, error) {
		gotConfig = config
		return nullEngine{}, nil
	})

	engine, err := Create("null", map[string]string{"model": "tiny"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if engine == nil {
		t.Fatal("nil engine")
	}
	if gotConfig["model"] != "tiny" {
		t.Errorf("config = %v", gotConfig)
	}
}

func TestCreateUnknownBackend(t *testing.T) {
	_, err := Create("no-such-backend", nil)
	if err == nil || !strings.Contains(err.Error(), "no-such-backend") {
		t.Errorf("err = %v", err)
	}
}
