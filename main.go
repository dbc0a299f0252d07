package main

import (
	"github.com/jisetihq/jiseti/config"
	"github.com/jisetihq/jiseti/db"
	"github.com/jisetihq/jiseti/mailingservices"
	"github.com/jisetihq/jiseti/server"
	"github.com/jisetihq/jiseti/services"
	log "github.com/sirupsen/logrus"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if conf.Env == "prod" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)
	smsClient := mailingservices.NewSMSClient()

	gormDB := db.GetDB(conf)
	if err := db.SeedDefaultAdmin(gormDB.DB, conf); err != nil {
		log.Fatalf("error seeding default admin: %v", err)
	}

	authRepo := db.NewAuthRepo(gormDB)
	recordRepo := db.NewRecordRepo(gormDB)
	historyRepo := db.NewStatusHistoryRepo(gormDB)
	voteRepo := db.NewVoteRepo(gormDB)
	mediaRepo := db.NewMediaRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)

	authService := services.NewAuthService(authRepo, conf)
	notificationService := services.NewNotificationService(notificationRepo, authRepo, mailgunClient, smsClient)
	recordService := services.NewRecordService(recordRepo, historyRepo, notificationService, conf)
	voteService := services.NewVoteService(voteRepo)
	mediaService := services.NewMediaService(mediaRepo, recordRepo, conf)

	s := &server.Server{
		Mail:                mailgunClient,
		Config:              conf,
		AuthRepository:      authRepo,
		AuthService:         authService,
		RecordService:       recordService,
		VoteService:         voteService,
		MediaService:        mediaService,
		NotificationService: notificationService,
		DB:                  *gormDB,
	}

	s.Start()
}
