package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"

	PeerRoleHost = "host"
	PeerRoleJoin = "join"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Game     Game    `yaml:"game"`
	Storage  Storage `yaml:"storage"`
	Peer     Peer    `yaml:"peer"`
}

type Game struct {
	Mode       string        `yaml:"mode" env:"GAME_MODE" env-default:"single"`
	Difficulty string        `yaml:"difficulty" env:"GAME_DIFFICULTY" env-default:"easy"`
	PlayerMark string        `yaml:"player-mark" env:"GAME_PLAYER_MARK" env-default:"X"`
	AIDelay    time.Duration `yaml:"ai-delay" env:"GAME_AI_DELAY" env-default:"240ms"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"tictactoe.db"`
	Redis      Redis  `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Peer is used only in online mode. A host listens on Port, a joiner dials Address.
type Peer struct {
	Role             string        `yaml:"role" env:"PEER_ROLE" env-default:"host"`
	Port             string        `yaml:"port" env:"PEER_PORT" env-default:"9090"`
	Address          string        `yaml:"address" env:"PEER_ADDRESS" env-default:"localhost:9090"`
	HandshakeTimeout time.Duration `yaml:"handshake-timeout" env:"PEER_HANDSHAKE_TIMEOUT" env-default:"10s"`
	PingInterval     time.Duration `yaml:"ping-interval" env:"PEER_PING_INTERVAL" env-default:"30s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) validate() error {
	if _, err := that.Game.Settings(); err != nil {
		return fmt.Errorf("invalid game section: %w", err)
	}

	switch that.Storage.Driver {
	case StorageDriverSQLite, StorageDriverRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", that.Storage.Driver)
	}

	switch that.Peer.Role {
	case PeerRoleHost, PeerRoleJoin:
	default:
		return fmt.Errorf("unknown peer role %q", that.Peer.Role)
	}

	if that.Game.AIDelay < 0 {
		return fmt.Errorf("ai-delay must not be negative, got %s", that.Game.AIDelay)
	}

	return nil
}

// Settings - the initial session settings.
func (that *Game) Settings() (entity.Settings, error) {
	return entity.ParseSettings(that.Mode, that.Difficulty, that.PlayerMark)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
