package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Secret      string   `yaml:"secret"`
	JwtIssuer   string   `yaml:"jwt_issuer"`
	JwtAudience string   `yaml:"jwt_audience"`
	TokenTTL    int      `yaml:"token_ttl"` // token lifetime in hours
	CorsOrigins []string `yaml:"cors_origins"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	// Password accepts either a plaintext value or a bcrypt hash.
	Password string `yaml:"password"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	ApiKey    string `yaml:"api_key"`
	ApiSecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

type StorageConfig struct {
	// Type selects the media storage backend: "cloudinary" or "local"
	Type       string           `yaml:"type"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Admin    AdminConfig   `yaml:"admin"`
	Storage  StorageConfig `yaml:"storage"`
	Logger   LoggerConfig  `yaml:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Location: "UTC",
			Workdir:  "/var/stonecraft",
			Debug:    false,
		},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        1816,
			Secret:      "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
			JwtIssuer:   "stonecraft",
			JwtAudience: "stonecraft",
			TokenTTL:    4,
			CorsOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "stonecraft",
			User:     "postgres",
			Passwd:   "postgres",
			MaxConn:  100,
			IdleConn: 10,
			Debug:    false,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "stonecraft",
		},
		Storage: StorageConfig{
			Type: "local",
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/stonecraft/stonecraft.log",
		},
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// variable overrides on top of built-in defaults. A missing file is not an
// error; defaults plus environment are used.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	cfg.System.Location = envString("STONECRAFT_SYSTEM_LOCATION", cfg.System.Location)
	cfg.System.Workdir = envString("STONECRAFT_SYSTEM_WORKDIR", cfg.System.Workdir)
	cfg.System.Debug = envBool("STONECRAFT_SYSTEM_DEBUG", cfg.System.Debug)

	cfg.Web.Host = envString("STONECRAFT_WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = envInt("STONECRAFT_WEB_PORT", cfg.Web.Port)
	cfg.Web.Secret = envString("STONECRAFT_WEB_SECRET", cfg.Web.Secret)
	cfg.Web.JwtIssuer = envString("STONECRAFT_WEB_JWT_ISSUER", cfg.Web.JwtIssuer)
	cfg.Web.JwtAudience = envString("STONECRAFT_WEB_JWT_AUDIENCE", cfg.Web.JwtAudience)
	cfg.Web.TokenTTL = envInt("STONECRAFT_WEB_TOKEN_TTL", cfg.Web.TokenTTL)

	cfg.Database.Type = envString("STONECRAFT_DB_TYPE", cfg.Database.Type)
	cfg.Database.Host = envString("STONECRAFT_DB_HOST", cfg.Database.Host)
	cfg.Database.Port = envInt("STONECRAFT_DB_PORT", cfg.Database.Port)
	cfg.Database.Name = envString("STONECRAFT_DB_NAME", cfg.Database.Name)
	cfg.Database.User = envString("STONECRAFT_DB_USER", cfg.Database.User)
	cfg.Database.Passwd = envString("STONECRAFT_DB_PWD", cfg.Database.Passwd)
	cfg.Database.Debug = envBool("STONECRAFT_DB_DEBUG", cfg.Database.Debug)

	cfg.Admin.Username = envString("STONECRAFT_ADMIN_USERNAME", cfg.Admin.Username)
	cfg.Admin.Password = envString("STONECRAFT_ADMIN_PASSWORD", cfg.Admin.Password)

	cfg.Storage.Type = envString("STONECRAFT_STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.Cloudinary.CloudName = envString("STONECRAFT_CLOUDINARY_CLOUD_NAME", cfg.Storage.Cloudinary.CloudName)
	cfg.Storage.Cloudinary.ApiKey = envString("STONECRAFT_CLOUDINARY_API_KEY", cfg.Storage.Cloudinary.ApiKey)
	cfg.Storage.Cloudinary.ApiSecret = envString("STONECRAFT_CLOUDINARY_API_SECRET", cfg.Storage.Cloudinary.ApiSecret)
	cfg.Storage.Cloudinary.Folder = envString("STONECRAFT_CLOUDINARY_FOLDER", cfg.Storage.Cloudinary.Folder)

	cfg.Logger.Mode = envString("STONECRAFT_LOGGER_MODE", cfg.Logger.Mode)
	cfg.Logger.FileEnable = envBool("STONECRAFT_LOGGER_FILE_ENABLE", cfg.Logger.FileEnable)
	cfg.Logger.Filename = envString("STONECRAFT_LOGGER_FILENAME", cfg.Logger.Filename)

	return cfg
}

func envString(name string, defval string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defval
}

func envInt(name string, defval int) int {
	if v := os.Getenv(name); v != "" {
		return cast.ToInt(v)
	}
	return defval
}

func envBool(name string, defval bool) bool {
	if v := os.Getenv(name); v != "" {
		return cast.ToBool(v)
	}
	return defval
}
