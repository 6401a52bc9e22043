package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	MySQLDSN string `envconfig:"MYSQL_DSN" default:"root:root@tcp(127.0.0.1:3306)/oqunet?charset=utf8mb4&parseTime=True"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"secret-key"`

	// Kafka is optional: no brokers means loan events stay unpublished.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"loan-events"`

	// SMTP is optional: no host means no notification mail.
	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"OquNet <no-reply@example.com>"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
