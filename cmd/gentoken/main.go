// Command gentoken prints a signed access token for a dashboard operator or a
// machine. JWT_SECRET must be set.
//
//	go run ./cmd/gentoken -role machine -sub M1
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"shopfloor/internal/config"
	"shopfloor/internal/middleware"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	role := flag.String("role", middleware.RoleMachine, "token role: dashboard | machine")
	sub := flag.String("sub", "", "subject: machine id or operator name")
	ttl := flag.Duration("ttl", 0, "token lifetime (default JWT_EXPIRATION_HOURS)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *role != middleware.RoleMachine && *role != middleware.RoleDashboard {
		log.Fatal().Str("role", *role).Msg("unknown role")
	}
	if *sub == "" {
		log.Fatal().Msg("-sub is required")
	}
	if *ttl == 0 {
		*ttl = time.Duration(cfg.JWTExpirationHours) * time.Hour
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, *sub, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("sign token")
	}
	fmt.Println(token)
}
