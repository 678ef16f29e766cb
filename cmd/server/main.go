package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"grubz/internal/config"
	"grubz/internal/db"
	"grubz/internal/email"
	"grubz/internal/favorites"
	"grubz/internal/httpapi"
	"grubz/internal/notify"
	"grubz/internal/order"
	"grubz/internal/payments"
	"grubz/internal/storage"
	"grubz/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()

	users := repository.NewUserRepository(d)
	orderRepo := repository.NewOrderRepository(d)
	menus := repository.NewMenuItemRepository(d)
	favRepo := repository.NewFavoriteRepository(d)
	applications := repository.NewApplicationRepository(d)

	hub := order.NewHub()
	orders := order.NewService(orderRepo, users, hub)

	var publisher order.EventPublisher = notify.Nop{}
	if cfg.AMQP.URL != "" {
		mq, err := notify.ConnectRabbitMQ(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatalf("connect rabbitmq: %v", err)
		}
		defer mq.Close()
		publisher = mq
		log.Printf("Order events publishing to exchange %q", cfg.AMQP.Exchange)
	}
	orders = orders.WithPublisher(publisher)

	var pay *payments.Client
	if cfg.Razorpay.KeyID != "" {
		pay = payments.New(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
		orders = orders.WithPayments(pay)
	}

	var favCache *favorites.Cache
	if cfg.Database.FavoritesPath != "" {
		favCache, err = favorites.OpenCache(cfg.Database.FavoritesPath)
		if err != nil {
			log.Printf("favorites cache unavailable, running without: %v", err)
		} else {
			defer favCache.Close()
		}
	}
	favs := favorites.NewService(favRepo, favCache)

	blobs, err := storage.NewStore(cfg.Storage.Dir, cfg.Storage.InlineMaxBytes)
	if err != nil {
		log.Fatalf("open blob store: %v", err)
	}

	var sender email.Sender = email.LogSender{}
	if cfg.SMTP.Host != "" {
		sender = &email.SMTPSender{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			From: cfg.SMTP.From,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
		}
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Config:       cfg,
		Users:        users,
		OrderRepo:    orderRepo,
		Orders:       orders,
		Menus:        menus,
		Favorites:    favs,
		Applications: applications,
		Hub:          hub,
		Blobs:        blobs,
		Email:        sender,
		Payments:     pay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("HTTP server listening on %s", cfg.HTTP.Address)
		return srv.Run(ctx)
	})
	if err := g.Wait(); err != nil {
		log.Printf("server exited: %v", err)
	}
}
