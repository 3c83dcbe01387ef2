// Command reconcile recounts reaction records and repairs the likes and
// dislikes counters of posts and comments.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/bloggerplatform/internal/bootstrap"
	"anoa.com/bloggerplatform/internal/config"
	"anoa.com/bloggerplatform/internal/entity"
	"anoa.com/bloggerplatform/internal/server"
	"anoa.com/bloggerplatform/pkg/log"
	"github.com/google/uuid"
)

func main() {
	postID := flag.String("post", "", "reconcile a single post")
	commentID := flag.String("comment", "", "reconcile a single comment")
	flag.Parse()

	l := log.L()
	cfg, err := config.Load()
	if err != nil {
		l.Fatal().Err(err).Msg("failed to load config")
	}
	log.Init(log.Config{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), ServiceName: "reconcile"})
	l = log.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open database")
	}
	redisClient, err := bootstrap.OpenRedis(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// shares the server's locker so a live server and this tool do not race
	svc := server.NewReactionService(cfg, db, redisClient)

	switch {
	case *postID != "":
		id, err := uuid.Parse(*postID)
		if err != nil {
			l.Fatal().Err(err).Msg("invalid -post")
		}
		counters, err := svc.ReconcilePostCounters(ctx, id)
		if err != nil {
			l.Fatal().Err(err).Str("post_id", id.String()).Msg("reconcile failed")
		}
		l.Info().Str("post_id", id.String()).Int64("likes", counters.LikesCount).Int64("dislikes", counters.DislikesCount).Msg("post reconciled")

	case *commentID != "":
		id, err := uuid.Parse(*commentID)
		if err != nil {
			l.Fatal().Err(err).Msg("invalid -comment")
		}
		counters, err := svc.ReconcileCommentCounters(ctx, id)
		if err != nil {
			l.Fatal().Err(err).Str("comment_id", id.String()).Msg("reconcile failed")
		}
		l.Info().Str("comment_id", id.String()).Int64("likes", counters.LikesCount).Int64("dislikes", counters.DislikesCount).Msg("comment reconciled")

	default:
		for _, subject := range []entity.SubjectType{entity.SubjectPost, entity.SubjectComment} {
			n, err := svc.ReconcileAll(ctx, subject)
			if err != nil {
				l.Fatal().Err(err).Str("subject", string(subject)).Msg("reconcile failed")
			}
			l.Info().Str("subject", string(subject)).Int("count", n).Msg("subjects reconciled")
		}
	}
}
