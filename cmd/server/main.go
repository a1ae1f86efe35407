package main

import (
	"flag"
	"log"

	_ "go.uber.org/automaxprocs"

	"github.com/simp-lee/staffdesk/internal/app"
	"github.com/simp-lee/staffdesk/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file (empty to use defaults and APP__ environment only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
