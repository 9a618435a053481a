package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env once at startup. A missing file is fine when the
// variables come from the process environment (containers, CI).
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}
}

func EnvMongoURI() string {
	uri := os.Getenv("MONGOURI")
	if uri == "" {
		log.Fatal("MONGOURI is not set")
	}
	return uri
}

func EnvJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	return secret
}

func EnvRazorpayKeyId() string {
	key := os.Getenv("RAZORPAY_KEY_ID")
	if key == "" {
		log.Fatal("RAZORPAY_KEY_ID is not set")
	}
	return key
}

func EnvRazorpayKeySecret() string {
	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if secret == "" {
		log.Fatal("RAZORPAY_KEY_SECRET is not set")
	}
	return secret
}

func EnvPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return port
}
