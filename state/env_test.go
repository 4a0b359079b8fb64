package state

import (
	"context"
	"log"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cellquest/content"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	if env.Book == nil || env.Book.Start() != content.ChapterWelcome {
		t.Fatal("environment must carry default book")
	}
	if env.RunID == uuid.Nil {
		t.Fatal("environment must have run id")
	}
	if env.Uptime() < 0 {
		t.Fatal("negative uptime")
	}
	if env.Log != nil || env.Cfg != nil || env.Rpt != nil {
		t.Fatal("logging, configuration and report are set up by commands")
	}

	other := EnvFromContext(ContextWithEnv(context.Background()))
	if other.RunID == env.RunID {
		t.Fatal("every environment must get its own run id")
	}
}

func TestEnvFromContextPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic without environment")
		}
	}()
	EnvFromContext(context.Background())
}

func TestRedirectStdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	log.Print("from standard logger")
	env.RestoreStdLog()
	log.Print("not captured")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "from standard logger" {
		t.Fatalf("unexpected captured entries: %+v", entries)
	}
}

func TestRedirectStdLogWithoutLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	env.RestoreStdLog()
}
