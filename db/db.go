package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/config"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/services/utils"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: %s@%s:%d/%s", c.PostgresUser, c.PostgresHost, c.PostgresPort, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=Africa/Nairobi",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{ID: uuid.New(), Name: models.RoleAdmin},
		{ID: uuid.New(), Name: models.RoleUser},
	}

	for _, role := range roles {
		if err := db.FirstOrCreate(&role, models.Role{Name: role.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedDefaultAdmin creates the bootstrap administrator account when the
// configured email does not exist yet. Without it a fresh deployment has no
// way to transition records.
func SeedDefaultAdmin(db *gorm.DB, c *config.Config) error {
	if c.DefaultAdminEmail == "" || c.DefaultAdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", c.DefaultAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	hashed, err := utils.HashPassword(c.DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Fullname:       "Jiseti Admin",
		Username:       "admin",
		Email:          c.DefaultAdminEmail,
		HashedPassword: hashed,
		AdminStatus:    true,
		AdminNumber:    fmt.Sprintf("ADM-%s", uuid.NewString()[:8]),
		IsEmailActive:  true,
		RoleID:         adminRole.ID,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("seeded default admin %s", c.DefaultAdminEmail)
	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Blacklist{},
		&models.Role{},
		&models.Record{},
		&models.Media{},
		&models.Vote{},
		&models.StatusHistory{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seeding roles error: %v", err)
	}

	return nil
}
