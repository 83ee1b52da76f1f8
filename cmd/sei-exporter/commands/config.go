package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"sei-exporter/lib/configutil"
	"sei-exporter/lib/restyutil"
	"sei-exporter/lib/scrapers/sei"
	"sei-exporter/lib/serviceutil"

	"github.com/spf13/viper"
)

// Config is the optional file-level configuration (config.json5 with a
// config.local.json5 override). Credentials never live here, they come from
// the environment.
type Config struct {
	BaseUrl        string `json:"base_url"`
	LoginPath      string `json:"login_path"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// extra whole-pipeline attempts after a TransportError, default 0
	MaxRetries uint64 `json:"max_retries"`
}

// Env is the SEI_* environment contract: SEI_USER, SEI_PASS, SEI_ORGAO,
// SEI_UNIDADE, SEI_DEBUG, SEI_SAVE_DEBUG_HTML, SEI_DATA_DIR.
type Env struct {
	User          string
	Pass          string
	Orgao         string
	Unidade       string
	Debug         bool
	SaveDebugHtml bool
	DataDir       string
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func loadEnv() Env {
	v := viper.New()
	v.SetEnvPrefix("SEI")
	v.AutomaticEnv()
	v.SetDefault("data_dir", ".dev")

	return Env{
		User:          v.GetString("user"),
		Pass:          v.GetString("pass"),
		Orgao:         v.GetString("orgao"),
		Unidade:       v.GetString("unidade"),
		Debug:         v.GetBool("debug"),
		SaveDebugHtml: v.GetBool("save_debug_html"),
		DataDir:       v.GetString("data_dir"),
	}
}

// createClient builds an authenticated session, switched to the configured
// unit when one is set. Exits the process on failure.
func createClient(ctx context.Context, cfg Config, env Env) *sei.Client {
	opts := sei.ClientOptions{
		BaseUrl:   cfg.BaseUrl,
		LoginPath: cfg.LoginPath,
		Orgao:     env.Orgao,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	if env.SaveDebugHtml {
		opts.DebugOutput = restyutil.NewFilesystemOutput(
			filepath.Join(env.DataDir, "resty"),
		)
	}

	client, err := sei.NewClient(opts)
	if err != nil {
		serviceutil.Fatal("failed to initialize sei client", err)
	}

	err = client.Login(ctx, env.User, env.Pass)
	if err != nil {
		serviceutil.Fatal("failed to login to sei", err)
	}
	if env.Unidade != "" {
		err = client.EnsureUnit(ctx, env.Unidade)
		if err != nil {
			serviceutil.Fatal("failed to switch unit", err)
		}
	}
	return client
}
