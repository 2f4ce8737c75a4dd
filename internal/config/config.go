package config

import (
	"flag"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr             string   `env:"RUN_ADDRESS" env-default:"localhost:8080"`
	DatabaseURL      string   `env:"DATABASE_URI"`
	PrivateKey       string   `env:"PRIVATE_KEY" env-default:"privatekey"`
	UnitPrice        int64    `env:"UNIT_PRICE" env-default:"2"`
	RewardBonus      int64    `env:"REWARD_BONUS" env-default:"10"`
	TelegramBotToken string   `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64    `env:"TELEGRAM_CHAT_ID"`
	AuthDisabledURLs []string `env:"AUTH_DISABLED_URLS" env-default:"/login,/register" env-separator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "a", "localhost:8080", "адрес эндпоинта HTTP-сервера")
	flag.StringVar(&cfg.DatabaseURL, "d", "", "URL базы данных")
	flag.Int64Var(&cfg.UnitPrice, "p", 2, "цена за единицу заказа")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	return cfg, nil
}
