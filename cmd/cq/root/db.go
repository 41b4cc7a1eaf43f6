package root

import (
	"context"
	"database/sql"
	"os"

	"go.uber.org/zap"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/config"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/engine"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/notify"
	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context, extra ...engine.Option) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}

	bal, err := config.FromEnv()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	log := zap.NewNop()
	if _, verbose := os.LookupEnv("CQ_DEBUG"); verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	opts := []engine.Option{
		engine.WithBalance(bal),
		engine.WithLogger(log),
		engine.WithNotifier(notify.NewLogNotifier(log)),
	}
	opts = append(opts, extra...)
	return engine.NewService(db, opts...), cleanup, nil
}
