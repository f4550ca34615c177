// Package main bookstore API.
//
// @title           Bookstore API
// @version         1.0
// @description     Online bookstore backend (catalog, cart, orders, reviews).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"bookstore/app/echoServer"
	announcementctrl "bookstore/app/echoServer/controller/announcement"
	authctrl "bookstore/app/echoServer/controller/auth"
	bookctrl "bookstore/app/echoServer/controller/book"
	bookmarkctrl "bookstore/app/echoServer/controller/bookmark"
	cartctrl "bookstore/app/echoServer/controller/cart"
	orderctrl "bookstore/app/echoServer/controller/order"
	reviewctrl "bookstore/app/echoServer/controller/review"
	"bookstore/app/echoServer/validation"
	"bookstore/config"
	announcementrepo "bookstore/repository/announcement"
	authrepo "bookstore/repository/auth"
	bookmarkrepo "bookstore/repository/bookmark"
	bookrepo "bookstore/repository/book"
	cartrepo "bookstore/repository/cart"
	mailerrepo "bookstore/repository/mailer"
	orderrepo "bookstore/repository/order"
	reviewrepo "bookstore/repository/review"
	announcementsvc "bookstore/service/announcement"
	authsvc "bookstore/service/auth"
	booksvc "bookstore/service/book"
	bookmarksvc "bookstore/service/bookmark"
	cartsvc "bookstore/service/cart"
	"bookstore/service/notification"
	ordersvc "bookstore/service/order"
	"bookstore/service/pricing"
	reviewsvc "bookstore/service/review"
	"bookstore/util/database"
	"bookstore/util/queue"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// redis, for the confirmation mail queue
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	q := queue.New(rdb, "order_confirmations", "notifiers")

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	cr := cartrepo.New(db)
	or := orderrepo.New(db)
	bmr := bookmarkrepo.New(db)
	rvr := reviewrepo.New(db)
	anr := announcementrepo.New(db)
	mr := mailerrepo.NewHTTP(cfg.MailerURL, cfg.MailerAPIKey)

	// services
	pricer := pricing.New(pricing.Config{
		VolumeThreshold:  cfg.VolumeThreshold,
		VolumePct:        cfg.VolumePct,
		LoyaltyThreshold: cfg.LoyaltyThreshold,
		LoyaltyPct:       cfg.LoyaltyPct,
	})
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(br, bmr)
	cs := cartsvc.New(cr, or, pricer)
	ords := ordersvc.New(db, or, pricer, q, cfg.ShippingCost, log)
	bms := bookmarksvc.New(bmr)
	rvs := reviewsvc.New(rvr)
	ans := announcementsvc.New(anr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, V: v, Log: log}
	orderC := &orderctrl.Controller{Svc: ords, V: v, Log: log}
	bookmarkC := &bookmarkctrl.Controller{Svc: bms, V: v, Log: log}
	reviewC := &reviewctrl.Controller{Svc: rvs, V: v, Log: log}
	announcementC := &announcementctrl.Controller{Svc: ans, V: v, Log: log}

	// background workers
	worker := notification.NewWorker(q, mr, log, "")
	go worker.Run(ctx)

	cleaner := ordersvc.NewCleaner(or, 72*time.Hour)
	go func() {
		tick := time.NewTicker(time.Hour)
		defer tick.Stop()
		for range tick.C {
			n, err := cleaner.ReleaseStale(ctx)
			if err != nil {
				log.Error("stale order sweep failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info("released stale orders", "count", n)
			}
		}
	}()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Book:         bookC,
		Cart:         cartC,
		Order:        orderC,
		Bookmark:     bookmarkC,
		Review:       reviewC,
		Announcement: announcementC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
