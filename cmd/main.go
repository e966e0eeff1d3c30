package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/groophq/groopsync/internal/api"
	"github.com/groophq/groopsync/internal/config"
	"github.com/groophq/groopsync/internal/membership"
	"github.com/groophq/groopsync/internal/model"
	"github.com/groophq/groopsync/internal/notify"
	"github.com/groophq/groopsync/internal/poll"
	"github.com/groophq/groopsync/pkg/logger"
	"go.uber.org/zap"

	sessionpkg "github.com/groophq/groopsync/internal/session"
)

func main() {
	groupID := flag.String("group", "", "group id to watch")
	flag.Parse()

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer l.Sync()

	l.Info("starting groopwatch")

	cfg, err := config.Load()
	if err != nil {
		l.Fatal("failed to load config", zap.Error(err))
	}

	client, err := api.NewClient(cfg.APIBaseURL)
	if err != nil {
		l.Fatal("failed to create API client", zap.Error(err))
	}

	ctx := logger.WithLogger(context.Background(), l)

	session := sessionpkg.New(client)
	if err := session.Start(ctx); err != nil {
		l.Fatal("session probe failed", zap.Error(err))
	}
	if !session.SignedIn() {
		l.Info("no session; sign in via browser first", zap.String("login_url", client.LoginURL()))
		os.Exit(1)
	}

	scheduler := poll.NewScheduler(l)
	defer scheduler.Close()

	center := notify.NewCenter(client)
	if err := center.RefreshUnread(ctx); err != nil {
		l.Warn("initial unread fetch failed", zap.Error(err))
	}
	l.Info("unread notifications", zap.Int("count", center.Unread()))

	scheduler.Register("unread-count", cfg.PollInterval, poll.Always, func(ctx context.Context) {
		ctx = logger.WithLogger(ctx, l)
		if err := center.RefreshUnread(ctx); err != nil {
			l.Warn("unread poll failed", zap.Error(err))
			return
		}
		l.Info("unread notifications", zap.Int("count", center.Unread()))
	})

	if *groupID != "" {
		watchGroup(ctx, l, cfg, client, session, scheduler, *groupID)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	l.Info("shutting down")
}

// watchGroup mirrors the group-detail view: one loop re-fetches the group,
// and organizers get an independent pending-member loop on its own cadence.
func watchGroup(ctx context.Context, l *zap.Logger, cfg *config.Config, client *api.Client, session *sessionpkg.Session, scheduler *poll.Scheduler, groupID string) {
	coordinator := membership.NewCoordinator(client, session.Username())
	if err := coordinator.Load(ctx, groupID); err != nil {
		l.Fatal("failed to load group", zap.String("group_id", groupID), zap.Error(err))
	}

	l.Info("watching group",
		zap.String("group_id", groupID),
		zap.String("status", string(coordinator.Status())),
		zap.Int("approved", coordinator.Group().ApprovedCount()))

	scheduler.Register("group:"+groupID, cfg.PollInterval, poll.Always, func(ctx context.Context) {
		ctx = logger.WithLogger(ctx, l)
		group, err := client.GetGroup(ctx, groupID)
		if err != nil {
			l.Warn("group poll failed", zap.String("group_id", groupID), zap.Error(err))
			return
		}
		coordinator.ReplaceGroup(group)
		l.Info("group reconciled",
			zap.String("group_id", groupID),
			zap.String("status", string(coordinator.Status())),
			zap.Int("approved", group.ApprovedCount()),
			zap.Int("pending", len(group.PendingMembers())))
	})

	if coordinator.Status() == model.MembershipOrganizer {
		scheduler.Register("pending:"+groupID, cfg.PollInterval, poll.Always, func(ctx context.Context) {
			ctx = logger.WithLogger(ctx, l)
			if err := coordinator.RefreshPending(ctx); err != nil {
				l.Warn("pending poll failed", zap.String("group_id", groupID), zap.Error(err))
				return
			}
			l.Info("pending members", zap.Int("count", len(coordinator.Pending())))
		})
	}
}
