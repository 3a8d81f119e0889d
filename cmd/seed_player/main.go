// seed_player creates (or tops up) a player in the configured backend and
// prints an API token for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"vie_bot/internal/config"
	"vie_bot/internal/db"
	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/repository"
	"vie_bot/internal/service"
	"vie_bot/internal/storage/bolt"
	"vie_bot/internal/store"
)

func main() {
	userID := flag.String("user", "100000000000000001", "player id")
	balance := flag.Int64("balance", 100_000, "V to credit")
	admin := flag.Bool("admin", false, "issue an admin token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	service.InitJWT(cfg.JWTSecret)
	ctx := context.Background()

	var backend store.Backend
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		backend = repository.NewPlayerRepository(pool)
	case "bolt":
		bs, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			log.Fatal(err)
		}
		backend = bs
	default:
		log.Fatalf("backend %q keeps nothing to seed", cfg.StoreBackend)
	}

	data, err := gamedata.Load(cfg.GameConfigPath, cfg.ShopConfigPath)
	if err != nil {
		log.Fatal(err)
	}
	st, err := store.Open(ctx, backend, data)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close(ctx)

	existed := st.Exists(*userID)
	err = st.Update(ctx, *userID, func(p *domain.PlayerRecord) error {
		p.Credit(*balance)
		return nil
	})
	if err != nil {
		log.Fatalf("seed player: %v", err)
	}
	p := st.GetUser(*userID)
	if existed {
		log.Printf("player %s topped up, balance=%d", p.UserID, p.Balance)
	} else {
		log.Printf("player %s created, balance=%d", p.UserID, p.Balance)
	}

	token, err := service.GenerateJWT(*userID, *admin)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
