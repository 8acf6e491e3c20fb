// Command devtoken mints a bearer token for local testing of the mission API.
// It reads the same JWT_* settings as the server.
//
//	go run ./cmd/devtoken -user 6f1a2b3c-4d5e-4f60-8192-a3b4c5d6e7f8
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "finhabit/internal/jwt_token"
	"finhabit/internal/platform/config"
	id "finhabit/pkg/domain"
)

func main() {
	user := flag.String("user", "", "user id (uuid) to put in the user_id claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := run(*user, *ttl); err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
}

func run(user string, ttl time.Duration) error {
	userID, err := id.ParseUserID(user)
	if err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	token, err := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience).
		GenerateAccessToken(userID, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
