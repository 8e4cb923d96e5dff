package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [Config] with JSON tags and string-friendly duration
// fields so operators can write "30s" instead of nanosecond integers.
type jsonConfig struct {
	Server struct {
		Port            int      `json:"port"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		BodyLimit       int64    `json:"body_limit"`
	} `json:"server,omitempty"`

	HTTPS struct {
		Enabled          bool     `json:"enabled"`
		CertFile         string   `json:"cert_file"`
		KeyFile          string   `json:"key_file"`
		AutocertHosts    []string `json:"autocert_hosts"`
		AutocertCacheDir string   `json:"autocert_cache_dir"`
	} `json:"https,omitempty"`

	Assets struct {
		StaticDir string `json:"static_dir"`
		ViewsDir  string `json:"views_dir"`
		ViewsExt  string `json:"views_ext"`
	} `json:"assets,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`

	Auth struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"auth,omitempty"`
}

func parseJSON(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer f.Close()

	var jc jsonConfig
	if err := json.NewDecoder(f).Decode(&jc); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &Config{
		Server: Server{
			Port:            jc.Server.Port,
			RequestTimeout:  time.Duration(jc.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jc.Server.ShutdownTimeout),
			BodyLimit:       jc.Server.BodyLimit,
		},
		HTTPS: HTTPS{
			Enabled:          jc.HTTPS.Enabled,
			CertFile:         jc.HTTPS.CertFile,
			KeyFile:          jc.HTTPS.KeyFile,
			AutocertHosts:    jc.HTTPS.AutocertHosts,
			AutocertCacheDir: jc.HTTPS.AutocertCacheDir,
		},
		Assets: Assets{
			StaticDir: jc.Assets.StaticDir,
			ViewsDir:  jc.Assets.ViewsDir,
			ViewsExt:  jc.Assets.ViewsExt,
		},
		Storage: Storage{
			DSN: jc.Storage.DSN,
		},
		Auth: Auth{
			TokenSignKey:  jc.Auth.TokenSignKey,
			TokenIssuer:   jc.Auth.TokenIssuer,
			TokenDuration: time.Duration(jc.Auth.TokenDuration),
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h" and "30s" as well as bare numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
