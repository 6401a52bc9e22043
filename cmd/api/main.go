package main

import (
	"log"

	"oqunet/internal/config"
	"oqunet/internal/model"
	"oqunet/internal/pkg"
	"oqunet/internal/repository/mysql"
	"oqunet/internal/repository/redis"
	"oqunet/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	pkg.Secret = []byte(cfg.JWTSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Printf("redis unavailable, single-login cache disabled: %v", err)
	}
	defer redis.Close()

	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Book{},
		&model.BookHistory{},
		&model.Message{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var producer *pkg.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer producer.Close()
	}

	r := router.InitRouter(mysql.DB, cfg, producer)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http: %v", err)
	}
}
