package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/peersync"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/internal/transport/console"
	"github.com/rocketscienceinc/tictactoe-duel/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-duel/internal/usecase"
)

const loopQueueSize = 64

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	settings, err := conf.Game.Settings()
	if err != nil {
		return fmt.Errorf("invalid game settings: %w", err)
	}

	statsRepo, closeStorage, err := openStatsRepository(ctx, conf.Storage)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close stats storage", "error", err)
		}
	}()

	statsService := service.NewStatsService(statsRepo)
	botService := service.NewBotService(rand.New(rand.NewSource(time.Now().UnixNano())))
	publisher := peersync.NewPublisher(logger)
	renderer := console.NewRenderer(os.Stdout)

	loop := usecase.NewLoop(logger, loopQueueSize)
	session := usecase.NewSession(logger, settings, conf.Game.AIDelay, usecase.SessionDeps{
		Notifier:  renderer,
		Scheduler: loop,
		Stats:     statsService,
		Bot:       botService,
		Peer:      publisher,
	})
	gameManager := usecase.NewGameManager(logger, loop, session, statsService)

	go func() {
		if loopErr := loop.Run(ctx); loopErr != nil {
			log.Error("event loop error", "error", loopErr)
		}
	}()

	if err = gameManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	// run peer link
	peerErrCh := make(chan error, 1)
	if settings.IsOnline() {
		go func() {
			if peerErr := runPeer(ctx, logger, conf.Peer, session.ID(), publisher, gameManager); peerErr != nil {
				log.Error("peer link error", "error", peerErr)
				peerErrCh <- peerErr
			}
		}()
	}

	// run console
	consoleErrCh := make(chan error, 1)
	go func() {
		cli := console.New(logger, gameManager, renderer)
		consoleErrCh <- cli.Run(ctx, os.Stdin, console.IsInteractive(os.Stdin))
	}()

	select {
	case err = <-peerErrCh:
		return fmt.Errorf("peer link error: %w", err)
	case err = <-consoleErrCh:
		if err != nil {
			return fmt.Errorf("console error: %w", err)
		}
		log.Info("Console closed, shutting down")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func openStatsRepository(ctx context.Context, conf config.Storage) (repository.StatsRepository, func() error, error) {
	switch conf.Driver {
	case config.StorageDriverRedis:
		addr := conf.Redis.GetRedisAddr()
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, addr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewStatsRepository(redisStorage.Connection), redisStorage.Close, nil
	case config.StorageDriverSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteStatsRepository(sqliteStorage.Connection), sqliteStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Driver)
	}
}

type peerMessageReceiver interface {
	ReceivePeerMessage(text string)
}

// runPeer hosts or joins the peer link depending on the configured role.
func runPeer(
	ctx context.Context,
	logger *slog.Logger,
	conf config.Peer,
	sessionID string,
	publisher *peersync.Publisher,
	receiver peerMessageReceiver,
) error {
	if conf.Role == config.PeerRoleJoin {
		peer, err := websocket.Dial(ctx, logger, conf.Address, sessionID, conf.HandshakeTimeout, conf.PingInterval)
		if err != nil {
			return fmt.Errorf("failed to join peer: %w", err)
		}

		return linkPeer(ctx, logger, peer, publisher, receiver)
	}

	server := websocket.NewServer(logger, sessionID, conf.PingInterval)

	go func() {
		for {
			peer, err := server.Accept(ctx)
			if err != nil {
				return
			}

			if err = linkPeer(ctx, logger, peer, publisher, receiver); err != nil {
				logger.Warn("peer link closed with error", "error", err)
			}
		}
	}()

	return server.Start(ctx, conf.Port)
}

func linkPeer(
	ctx context.Context,
	logger *slog.Logger,
	peer *websocket.Peer,
	publisher *peersync.Publisher,
	receiver peerMessageReceiver,
) error {
	publisher.Attach(peer)
	defer publisher.Detach()

	logger.Info("peer linked")

	if err := peer.Listen(ctx, receiver.ReceivePeerMessage); err != nil {
		return fmt.Errorf("peer link failed: %w", err)
	}

	return nil
}
